package models

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"
)

// BusinessProfile is the onboarding record for a user's business. There is
// at most one per user.
type BusinessProfile struct {
	ID             string         `db:"id"              json:"id"`
	UserID         string         `db:"user_id"         json:"user_id"`
	BusinessName   string         `db:"business_name"   json:"business_name"`
	Industry       string         `db:"industry"        json:"industry"`
	TargetAudience string         `db:"target_audience" json:"target_audience"`
	BrandVoice     string         `db:"brand_voice"     json:"brand_voice"`
	LogoURL        *string        `db:"logo_url"        json:"logo_url,omitempty"`
	WebsiteURL     *string        `db:"website_url"     json:"website_url,omitempty"`
	MembershipTier MembershipTier `db:"membership_tier" json:"membership_tier"`
	CreatedAt      time.Time      `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"      json:"updated_at"`
}

// Industries offered during onboarding.
var Industries = []string{
	"E-commerce", "SaaS", "Healthcare", "Finance", "Education",
	"Real Estate", "Food & Beverage", "Fashion", "Technology", "Other",
}

// BrandVoices offered during onboarding.
var BrandVoices = []string{
	"Professional", "Casual", "Friendly", "Authoritative",
	"Humorous", "Inspirational", "Educational",
}

var ErrValidation = errors.New("validation failed")

// Validate checks required fields, the tier and optional URLs.
func (p *BusinessProfile) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"business_name":   p.BusinessName,
		"industry":        p.Industry,
		"target_audience": p.TargetAudience,
		"brand_voice":     p.BrandVoice,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	if !p.MembershipTier.Valid() {
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidTier)
	}
	if err := validateOptionalURL("logo_url", p.LogoURL); err != nil {
		return err
	}
	return validateOptionalURL("website_url", p.WebsiteURL)
}

func validateOptionalURL(field string, raw *string) error {
	if raw == nil || *raw == "" {
		return nil
	}
	u, err := url.Parse(*raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL", ErrValidation, field)
	}
	return nil
}

// ProfileUpdate is a partial update; nil fields are left alone.
type ProfileUpdate struct {
	BusinessName   *string         `json:"business_name"`
	Industry       *string         `json:"industry"`
	TargetAudience *string         `json:"target_audience"`
	BrandVoice     *string         `json:"brand_voice"`
	LogoURL        *string         `json:"logo_url"`
	WebsiteURL     *string         `json:"website_url"`
	MembershipTier *MembershipTier `json:"membership_tier"`
}

// Apply copies the set fields into p and returns their JSON names.
func (u ProfileUpdate) Apply(p *BusinessProfile) []string {
	var changed []string
	setString := func(name string, dst *string, src *string) {
		if src != nil && *src != *dst {
			*dst = *src
			changed = append(changed, name)
		}
	}
	setOptional := func(name string, dst **string, src *string) {
		if src == nil {
			return
		}
		v := *src
		if (*dst == nil && v == "") || (*dst != nil && **dst == v) {
			return
		}
		if v == "" {
			*dst = nil
		} else {
			*dst = &v
		}
		changed = append(changed, name)
	}

	setString("business_name", &p.BusinessName, u.BusinessName)
	setString("industry", &p.Industry, u.Industry)
	setString("target_audience", &p.TargetAudience, u.TargetAudience)
	setString("brand_voice", &p.BrandVoice, u.BrandVoice)
	setOptional("logo_url", &p.LogoURL, u.LogoURL)
	setOptional("website_url", &p.WebsiteURL, u.WebsiteURL)
	if u.MembershipTier != nil && *u.MembershipTier != p.MembershipTier {
		p.MembershipTier = *u.MembershipTier
		changed = append(changed, "membership_tier")
	}
	return changed
}
