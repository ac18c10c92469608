package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type contextKey string

const ParticipantKey contextKey = "participant"

// ParticipantTTL is the lifetime of a competition participant token.
const ParticipantTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid participant token")

// Participant is the identity carried by a competition token.
type Participant struct {
	ID            uuid.UUID
	Username      string
	CompetitionID string
}

type JWTAuth struct {
	Secret []byte
	now    func() time.Time
}

func NewJWTAuth(secret string) *JWTAuth {
	return &JWTAuth{Secret: []byte(secret), now: time.Now}
}

// GenerateParticipantToken creates an HS256 token valid for ParticipantTTL.
func (j *JWTAuth) GenerateParticipantToken(p Participant) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(ParticipantTTL)
	claims := jwt.MapClaims{
		"participant_id": p.ID.String(),
		"username":       p.Username,
		"competition_id": p.CompetitionID,
		"exp":            expiresAt.Unix(),
		"iat":            now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies a participant token and returns its identity.
func (j *JWTAuth) Parse(tokenStr string) (*Participant, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return j.Secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	idStr, _ := claims["participant_id"].(string)
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, ErrInvalidToken
	}
	username, _ := claims["username"].(string)
	competitionID, _ := claims["competition_id"].(string)
	if username == "" || competitionID == "" {
		return nil, ErrInvalidToken
	}
	return &Participant{ID: id, Username: username, CompetitionID: competitionID}, nil
}

// Middleware validates the Bearer participant token and attaches it to the context
func (j *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header", r)
			return
		}

		// Must be Bearer format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format", r)
			return
		}

		participant, err := j.Parse(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired", r)
			} else {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", r)
			}
			return
		}

		ctx := context.WithValue(r.Context(), ParticipantKey, participant)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetParticipant extracts the participant from request context
func GetParticipant(ctx context.Context) *Participant {
	p, _ := ctx.Value(ParticipantKey).(*Participant)
	return p
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   false,
		"error":     message,
		"code":      code,
		"requestId": GetRequestID(r.Context()),
	})
}
