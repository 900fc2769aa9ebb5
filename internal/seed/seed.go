// Package seed loads registry gifts and bridal crew members from a YAML file.
package seed

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"wedding/site/internal/model"
	"wedding/site/internal/repository"
)

type Content struct {
	Gifts []GiftEntry `yaml:"gifts"`
	Crew  []CrewEntry `yaml:"crew"`
}

type GiftEntry struct {
	Name     string `yaml:"name"`
	ImageURL string `yaml:"image_url"`
}

type CrewEntry struct {
	Name        string `yaml:"name"`
	Role        string `yaml:"role"`
	HeadshotURL string `yaml:"headshot_url"`
	Quote       string `yaml:"quote"`
}

type Result struct {
	GiftsAdded int
	CrewAdded  int
	Skipped    int
}

func Parse(r io.Reader) (*Content, error) {
	var c Content
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i, g := range c.Gifts {
		if strings.TrimSpace(g.Name) == "" {
			return nil, fmt.Errorf("gifts[%d]: name is required", i)
		}
	}
	for i, m := range c.Crew {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Role) == "" {
			return nil, fmt.Errorf("crew[%d]: name and role are required", i)
		}
	}
	return &c, nil
}

// Apply inserts entries whose name is not stored yet, so running it twice is harmless.
func Apply(ctx context.Context, gifts repository.GiftRepository, crew repository.CrewRepository, c *Content) (*Result, error) {
	res := &Result{}

	existingGifts, err := gifts.List(ctx)
	if err != nil {
		return nil, err
	}
	giftNames := make(map[string]bool, len(existingGifts))
	for _, g := range existingGifts {
		giftNames[strings.ToLower(g.Name)] = true
	}
	for _, entry := range c.Gifts {
		name := strings.TrimSpace(entry.Name)
		if giftNames[strings.ToLower(name)] {
			res.Skipped++
			continue
		}
		gift := &model.Gift{Name: name, ImageURL: optional(entry.ImageURL)}
		if err := gifts.Create(ctx, gift); err != nil {
			return res, fmt.Errorf("create gift %q: %w", name, err)
		}
		giftNames[strings.ToLower(name)] = true
		res.GiftsAdded++
	}

	existingCrew, err := crew.List(ctx)
	if err != nil {
		return res, err
	}
	crewNames := make(map[string]bool, len(existingCrew))
	for _, m := range existingCrew {
		crewNames[strings.ToLower(m.Name)] = true
	}
	for _, entry := range c.Crew {
		name := strings.TrimSpace(entry.Name)
		if crewNames[strings.ToLower(name)] {
			res.Skipped++
			continue
		}
		member := &model.CrewMember{
			Name:        name,
			Role:        strings.TrimSpace(entry.Role),
			HeadshotURL: optional(entry.HeadshotURL),
			Quote:       optional(entry.Quote),
		}
		if err := crew.Create(ctx, member); err != nil {
			return res, fmt.Errorf("create crew member %q: %w", name, err)
		}
		crewNames[strings.ToLower(name)] = true
		res.CrewAdded++
	}
	return res, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
