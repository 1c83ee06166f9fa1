// Copyright (c) 2026 Leafmark. All rights reserved.
// Author: dev@leafmark.app

package auth

import "time"

const (
	// AccessTokenTTL is how long an issued access token stays valid.
	AccessTokenTTL = 1 * time.Hour

	// SessionTTL matches the access token lifetime: a session dies with the
	// token bound to it. There is no refresh mechanism; clients log in again.
	SessionTTL = AccessTokenTTL

	// MinUsernameLength and MinPasswordLength are the registration floors.
	MinUsernameLength = 3
	MinPasswordLength = 8

	// MaxUsernameLength bounds usernames to keep review listings readable.
	MaxUsernameLength = 32
)
