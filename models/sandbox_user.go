package models

import (
	"bufio"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	_ "embed"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rohanthewiz/serr"
	"golang.org/x/crypto/bcrypt"
)

// ChallengeUser is an account created through the sandbox.
type ChallengeUser struct {
	GUID         string    `json:"guid"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never exposed in JSON
	CreatedAt    time.Time `json:"created_at"`
}

// Sandbox accounts hash at the library default cost.
const sandboxBcryptCost = bcrypt.DefaultCost

// Sandbox rejection details. The wording mirrors the real service, whose
// password rejections mention "password" so the client can tell them apart.
const (
	DetailPasswordNotAllowed = "Password not allowed"
	DetailInvalidCredentials = "Invalid username or password"
	DetailUsernameRequired   = "Username is required"
	DetailUsernameTaken      = "Username already exists"
	DetailInvalidBody        = "Invalid request body"
)

// SandboxError is a rejection the sandbox reports to its caller as
// {"detail": Detail} with the given HTTP status.
type SandboxError struct {
	Status int
	Detail string
}

func (e *SandboxError) Error() string {
	return e.Detail
}

func badRequest(detail string) *SandboxError {
	return &SandboxError{Status: http.StatusBadRequest, Detail: detail}
}

//go:embed denied_passwords.txt
var deniedPasswordsFile string

// deniedPasswords holds the lower-cased deny list.
var deniedPasswords = parseDeniedPasswords(deniedPasswordsFile)

func parseDeniedPasswords(src string) map[string]struct{} {
	out := make(map[string]struct{})
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out[strings.ToLower(line)] = struct{}{}
	}
	return out
}

// IsDeniedPassword reports whether the sandbox refuses this password
// regardless of policy.
func IsDeniedPassword(pwd string) bool {
	_, ok := deniedPasswords[strings.ToLower(pwd)]
	return ok
}

// CreateChallengeUser validates the input the way the challenge API does and
// stores the account. Rejections are returned as *SandboxError; anything
// else is an internal failure.
func CreateChallengeUser(input SignupInput) (*ChallengeUser, error) {
	if strings.TrimSpace(input.Username) == "" {
		return nil, badRequest(DetailUsernameRequired)
	}
	if violations := ValidatePassword(input.Password); len(violations) > 0 {
		return nil, badRequest(violations[0])
	}
	if IsDeniedPassword(input.Password) {
		return nil, badRequest(DetailPasswordNotAllowed)
	}

	db, err := getSandboxDB()
	if err != nil {
		return nil, err
	}

	existing, err := GetChallengeUser(input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, badRequest(DetailUsernameTaken)
	}

	hash, err := bcrypt.GenerateFromPassword(prehashPassword(input.Password), sandboxBcryptCost)
	if err != nil {
		return nil, serr.Wrap(err, "failed to hash password")
	}

	user := &ChallengeUser{
		GUID:         uuid.New().String(),
		Username:     input.Username,
		PasswordHash: string(hash),
	}

	err = db.QueryRow(`
		INSERT INTO challenge_users (guid, username, password_hash)
		VALUES (?, ?, ?)
		RETURNING created_at
	`, user.GUID, user.Username, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "unique") || strings.Contains(errStr, "duplicate") {
			return nil, badRequest(DetailUsernameTaken)
		}
		return nil, serr.Wrap(err, "failed to create challenge user")
	}

	return user, nil
}

// GetChallengeUser looks up a sandbox account by username.
// Returns nil, nil if the user does not exist.
func GetChallengeUser(username string) (*ChallengeUser, error) {
	db, err := getSandboxDB()
	if err != nil {
		return nil, err
	}

	user := &ChallengeUser{}
	err = db.QueryRow(`
		SELECT guid, username, password_hash, created_at
		FROM challenge_users
		WHERE username = ?
	`, username).Scan(&user.GUID, &user.Username, &user.PasswordHash, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, serr.Wrap(err, "failed to get challenge user")
	}
	return user, nil
}

// CountChallengeUsers returns how many sandbox accounts exist.
func CountChallengeUsers() (int, error) {
	db, err := getSandboxDB()
	if err != nil {
		return 0, err
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM challenge_users").Scan(&count); err != nil {
		return 0, serr.Wrap(err, "failed to count challenge users")
	}
	return count, nil
}

// CheckChallengePassword verifies a plaintext password against a stored hash.
func CheckChallengePassword(user *ChallengeUser, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), prehashPassword(password)) == nil
}

// VerifyChallengeUser checks sandbox credentials. Unknown users and wrong
// passwords both yield a 401 *SandboxError.
func VerifyChallengeUser(input SignupInput) (*ChallengeUser, error) {
	user, err := GetChallengeUser(input.Username)
	if err != nil {
		return nil, err
	}
	if user == nil || !CheckChallengePassword(user, input.Password) {
		return nil, &SandboxError{Status: http.StatusUnauthorized, Detail: DetailInvalidCredentials}
	}
	return user, nil
}

// prehashPassword digests the password before bcrypt, which rejects input
// over 72 bytes. A 24-rune password can be up to 96 bytes of UTF-8.
func prehashPassword(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}
