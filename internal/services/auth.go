package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pressgen/pressgen-backend/internal/logger"
	"github.com/pressgen/pressgen-backend/internal/repos"
	"github.com/pressgen/pressgen-backend/internal/requestdata"
	"github.com/pressgen/pressgen-backend/internal/types"
)

// JWTClaims is the access-token payload. SessionID ties the short-lived
// access token back to the refresh-token row so logout can revoke one
// device without touching the others.
type JWTClaims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, email, password, displayName string) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context, refreshToken string) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, email, password, displayName string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("invalid email")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &types.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    string(hash),
		DisplayName: strings.TrimSpace(displayName),
		Role:        types.UserRoleUser,
		Status:      types.UserStatusActive,
	}
	if _, err := as.userRepo.Create(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return "", "", fmt.Errorf("failed to load user: %w", err)
	}
	// Same message for unknown email and wrong password.
	if user == nil {
		return "", "", fmt.Errorf("invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", "", fmt.Errorf("invalid email or password")
	}
	if user.Status != types.UserStatusActive {
		return "", "", fmt.Errorf("account disabled")
	}

	var accessToken, refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, sErr := as.createSession(ctx, tx, user.ID)
		if sErr != nil {
			return sErr
		}
		refreshToken = session.RefreshToken
		accessToken, sErr = as.generateAccessToken(user, session.ID)
		return sErr
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// RefreshUser rotates the session: the presented refresh token's row is
// revoked and replaced, so a replayed old token fails.
func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.SessionID == uuid.Nil {
		return "", "", fmt.Errorf("no session in context")
	}

	var accessToken, newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, sErr := as.userTokenRepo.GetByID(ctx, tx, rd.SessionID)
		if sErr != nil {
			return fmt.Errorf("failed to load session: %w", sErr)
		}
		if session == nil || session.RevokedAt != nil {
			return fmt.Errorf("session revoked")
		}
		if session.RefreshToken != refreshToken {
			return fmt.Errorf("refresh token mismatch")
		}
		if session.ExpiresAt.Before(time.Now()) {
			return fmt.Errorf("refresh token expired")
		}

		user, uErr := as.userRepo.GetByID(ctx, tx, session.UserID)
		if uErr != nil {
			return fmt.Errorf("failed to load user for refresh: %w", uErr)
		}
		if user.Status != types.UserStatusActive {
			return fmt.Errorf("account disabled")
		}

		if rErr := as.userTokenRepo.Revoke(ctx, tx, session.ID); rErr != nil {
			return fmt.Errorf("failed to revoke old session: %w", rErr)
		}
		newSession, nErr := as.createSession(ctx, tx, user.ID)
		if nErr != nil {
			return nErr
		}
		newRefreshToken = newSession.RefreshToken
		accessToken, nErr = as.generateAccessToken(user, newSession.ID)
		return nErr
	})
	if err != nil {
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.SessionID == uuid.Nil {
		return fmt.Errorf("no session in context")
	}
	if err := as.userTokenRepo.Revoke(ctx, nil, rd.SessionID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (as *authService) createSession(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserToken, error) {
	session := &types.UserToken{
		ID:           uuid.New(),
		UserID:       userID,
		RefreshToken: uuid.New().String(),
		ExpiresAt:    time.Now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(ctx, tx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (as *authService) generateAccessToken(user *types.User, sessionID uuid.UUID) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		SessionID: sessionID.String(),
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken validates the access token and stores the caller's
// identity in the request context. Verification is purely local; the
// session row is only consulted on refresh and logout.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return ctx, fmt.Errorf("invalid session id in token: %w", err)
	}

	rd := &requestdata.RequestData{
		UserID:    userID,
		SessionID: sessionID,
		Role:      claims.Role,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
