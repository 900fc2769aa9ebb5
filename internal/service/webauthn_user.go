package service

import (
	"encoding/json"

	"github.com/go-webauthn/webauthn/webauthn"

	"wedding/site/internal/model"
)

// webauthnUser adapts a profile and its passkey identities to webauthn.User.
type webauthnUser struct {
	profile     *model.Profile
	credentials []webauthn.Credential
}

func newWebAuthnUser(profile *model.Profile, identities []model.Identity) *webauthnUser {
	var creds []webauthn.Credential
	for _, id := range identities {
		if id.IdentityType != model.IdentityTypePasskey {
			continue
		}
		cred, err := credentialFromIdentity(id)
		if err != nil {
			continue
		}
		creds = append(creds, *cred)
	}
	return &webauthnUser{profile: profile, credentials: creds}
}

func (u *webauthnUser) WebAuthnID() []byte { return u.profile.ID[:] }
func (u *webauthnUser) WebAuthnName() string { return u.profile.Email }

func (u *webauthnUser) WebAuthnDisplayName() string {
	if u.profile.FullName != "" {
		return u.profile.FullName
	}
	return u.profile.Email
}

func (u *webauthnUser) WebAuthnCredentials() []webauthn.Credential { return u.credentials }

// credentialFromIdentity decodes the credential kept under the "webauthn" key.
func credentialFromIdentity(identity model.Identity) (*webauthn.Credential, error) {
	data, ok := identity.CredentialData["webauthn"]
	if !ok {
		return nil, ErrIdentityNotFound
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var cred webauthn.Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

func credentialToData(cred *webauthn.Credential) model.CredentialData {
	raw, _ := json.Marshal(cred)
	var data interface{}
	_ = json.Unmarshal(raw, &data)
	return model.CredentialData{"webauthn": data}
}
