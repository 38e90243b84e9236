// SPDX-License-Identifier: AGPL-3.0-only
package authhelp

import (
	"log"
	"os"
	"strings"
)

// User is an operator account defined through the environment.
type User struct {
	Username     string
	PasswordHash string
	Role         string
	Name         string
}

// LoadUsersFromEnv builds the user table from USER_<NAME> variables of
// the form password:role:display name. In non-production environments
// with no users configured, a fallback admin account fred/admin is
// created so the dashboard is reachable out of the box.
func LoadUsersFromEnv(environment string) map[string]User {
	users := make(map[string]User)

	for _, env := range os.Environ() {
		key, value, found := strings.Cut(env, "=")
		if !found || !strings.HasPrefix(key, "USER_") {
			continue
		}

		username := strings.ToLower(strings.TrimPrefix(key, "USER_"))
		if username == "" {
			continue
		}

		parts := strings.SplitN(value, ":", 3)
		if len(parts) < 2 {
			log.Printf("Auth: Skipping malformed user definition for %s", username)
			continue
		}

		password := parts[0]
		role := parts[1]
		name := username
		if len(parts) == 3 && parts[2] != "" {
			name = parts[2]
		}

		hash, err := HashPassword(password)
		if err != nil {
			log.Printf("Auth: Failed to hash password for %s: %v", username, err)
			continue
		}

		users[username] = User{
			Username:     username,
			PasswordHash: hash,
			Role:         role,
			Name:         name,
		}
	}

	if len(users) == 0 && environment != "production" {
		hash, err := HashPassword("admin")
		if err == nil {
			users["fred"] = User{
				Username:     "fred",
				PasswordHash: hash,
				Role:         "admin",
				Name:         "Fred",
			}
			log.Println("Auth: No users configured, created fallback dev account")
		}
	}

	return users
}

// Authenticate checks a username/password pair against the user table.
func Authenticate(users map[string]User, username, password string) (User, bool) {
	user, ok := users[strings.ToLower(username)]
	if !ok {
		return User{}, false
	}
	if !CheckPasswordHash(user.PasswordHash, password) {
		return User{}, false
	}
	return user, true
}
