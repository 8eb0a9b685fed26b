package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidPlatform   = errors.New("invalid platform")
	ErrInvalidStatus     = errors.New("invalid post status")
	ErrInvalidTier       = errors.New("invalid membership tier")
	ErrInvalidPlanStatus = errors.New("invalid plan status")
)

// Platform is a social network a post targets.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTikTok    Platform = "tiktok"
)

// Platforms lists every platform in rotation order.
var Platforms = []Platform{PlatformFacebook, PlatformInstagram, PlatformLinkedIn, PlatformTikTok}

func (p Platform) Valid() bool {
	switch p {
	case PlatformFacebook, PlatformInstagram, PlatformLinkedIn, PlatformTikTok:
		return true
	}
	return false
}

// ParsePlatform is case-insensitive and trims whitespace.
func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlatform, s)
	}
	return p, nil
}

// PostStatus is where a post is in its lifecycle.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "scheduled"
	StatusPublished PostStatus = "published"
	StatusFailed    PostStatus = "failed"
)

var PostStatuses = []PostStatus{StatusDraft, StatusScheduled, StatusPublished, StatusFailed}

func (s PostStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished, StatusFailed:
		return true
	}
	return false
}

func ParsePostStatus(s string) (PostStatus, error) {
	st := PostStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// MembershipTier is the billing plan of a business profile.
type MembershipTier string

const (
	TierFree       MembershipTier = "free"
	TierPro        MembershipTier = "pro"
	TierEnterprise MembershipTier = "enterprise"
)

func (t MembershipTier) Valid() bool {
	switch t {
	case TierFree, TierPro, TierEnterprise:
		return true
	}
	return false
}

func ParseMembershipTier(s string) (MembershipTier, error) {
	t := MembershipTier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
	return t, nil
}

// MonthlyPriceUSD is the list price shown on the pricing page.
func (t MembershipTier) MonthlyPriceUSD() int {
	switch t {
	case TierPro:
		return 49
	case TierEnterprise:
		return 199
	default:
		return 0
	}
}

// PlanStatus tracks a saved weekly content plan.
type PlanStatus string

const (
	PlanPending  PlanStatus = "pending"
	PlanApproved PlanStatus = "approved"
	PlanActive   PlanStatus = "active"
)

func (s PlanStatus) Valid() bool {
	switch s {
	case PlanPending, PlanApproved, PlanActive:
		return true
	}
	return false
}

func ParsePlanStatus(s string) (PlanStatus, error) {
	st := PlanStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPlanStatus, s)
	}
	return st, nil
}
