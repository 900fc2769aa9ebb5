package service

import (
	"strings"
	"time"

	"github.com/skip2/go-qrcode"

	"wedding/site/internal/config"
)

const (
	minQRSize     = 64
	maxQRSize     = 1024
	defaultQRSize = 256
)

// QRCodeEncoder matches qrcode.Encode so tests can swap it.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

type Details struct {
	Couple    string
	StartsAt  time.Time
	Date      string
	Time      string
	Venue     string
	Address   string
	DressCode string
}

type TimelineEntry struct {
	ImageURL    string `json:"image_url"`
	Caption     string `json:"caption"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// TimeLeft is the countdown to the ceremony. It stays at zero once the date passes.
type TimeLeft struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Passed  bool `json:"passed"`
}

type SiteService interface {
	Details() Details
	Timeline() []TimelineEntry
	Countdown(now time.Time) TimeLeft
	RSVPURL() string
	InviteQRCode(size int) ([]byte, error)
}

type siteService struct {
	wedding config.WeddingConfig
	baseURL string
	encode  QRCodeEncoder
}

func NewSiteService(wedding config.WeddingConfig, baseURL string, encode QRCodeEncoder) SiteService {
	if encode == nil {
		encode = qrcode.Encode
	}
	return &siteService{wedding: wedding, baseURL: baseURL, encode: encode}
}

func (s *siteService) Details() Details {
	d := Details{
		Couple:    s.wedding.Couple,
		StartsAt:  s.wedding.StartsAt,
		Time:      s.wedding.Time,
		Venue:     s.wedding.Venue,
		Address:   s.wedding.Address,
		DressCode: s.wedding.DressCode,
	}
	if !s.wedding.StartsAt.IsZero() {
		d.Date = s.wedding.StartsAt.Format("Monday, 2 January 2006")
		if d.Time == "" {
			d.Time = s.wedding.StartsAt.Format("15:04")
		}
	}
	return d
}

func (s *siteService) Timeline() []TimelineEntry {
	entries := make([]TimelineEntry, 0, len(s.wedding.Timeline))
	for _, e := range s.wedding.Timeline {
		entries = append(entries, TimelineEntry(e))
	}
	return entries
}

func (s *siteService) Countdown(now time.Time) TimeLeft {
	left := s.wedding.StartsAt.Sub(now)
	if s.wedding.StartsAt.IsZero() || left <= 0 {
		return TimeLeft{Passed: !s.wedding.StartsAt.IsZero()}
	}
	total := int(left / time.Second)
	return TimeLeft{
		Days:    total / 86400,
		Hours:   total % 86400 / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}

func (s *siteService) RSVPURL() string {
	return strings.TrimRight(s.baseURL, "/") + "/rsvp"
}

// InviteQRCode renders a PNG QR code linking to the RSVP page. Size 0 picks the default.
func (s *siteService) InviteQRCode(size int) ([]byte, error) {
	if size == 0 {
		size = defaultQRSize
	}
	if size < minQRSize || size > maxQRSize {
		return nil, ErrInvalidQRSize
	}
	return s.encode(s.RSVPURL(), qrcode.Medium, size)
}

var _ SiteService = (*siteService)(nil)
