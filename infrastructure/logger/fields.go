package logger

import (
	"time"

	"go.uber.org/zap"
)

func String(key, val string) Field { return zap.String(key, val) }
func Strings(key string, val []string) Field { return zap.Strings(key, val) }
func Int(key string, val int) Field { return zap.Int(key, val) }
func Int64(key string, val int64) Field { return zap.Int64(key, val) }
func Float64(key string, val float64) Field { return zap.Float64(key, val) }
func Bool(key string, val bool) Field { return zap.Bool(key, val) }
func Duration(key string, val time.Duration) Field { return zap.Duration(key, val) }
func Time(key string, val time.Time) Field { return zap.Time(key, val) }
func Any(key string, val any) Field { return zap.Any(key, val) }

// Error attaches err under the "error" key.
func Error(err error) Field { return zap.Error(err) }

// NamedError attaches err under a custom key.
func NamedError(key string, err error) Field { return zap.NamedError(key, err) }

// Common keys, so every package spells them the same way.
const (
	KeyRequestID = "request_id"
	KeyUserID    = "user_id"
	KeyProfileID = "profile_id"
	KeyPostID    = "post_id"
	KeyProvider  = "provider"
	KeyPlatform  = "platform"
)

func RequestID(id string) Field { return zap.String(KeyRequestID, id) }
func UserID(id string) Field { return zap.String(KeyUserID, id) }
func ProfileID(id string) Field { return zap.String(KeyProfileID, id) }
func PostID(id string) Field { return zap.String(KeyPostID, id) }
func Provider(name string) Field { return zap.String(KeyProvider, name) }
func Platform(name string) Field { return zap.String(KeyPlatform, name) }
