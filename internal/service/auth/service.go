package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/ports"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
	userCacheTTL    = 5 * time.Minute
)

type Service struct {
	userRepo  ports.UserRepository
	cache     ports.Cache
	jwtSecret []byte
	log       *zap.Logger
}

func NewService(userRepo ports.UserRepository, cache ports.Cache, jwtSecret string, log *zap.Logger) ports.AuthService {
	return &Service{
		userRepo:  userRepo,
		cache:     cache,
		jwtSecret: []byte(jwtSecret),
		log:       log,
	}
}

func (s *Service) Login(ctx context.Context, username, password string) (string, string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil || user == nil {
		return "", "", ports.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", ports.ErrInvalidCredentials
	}

	access, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.generateRefreshToken(user)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Register creates the user together with its single profile row.
func (s *Service) Register(ctx context.Context, user *domain.User, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("auth: invalid role %q", role)
	}

	existing, err := s.userRepo.FindByUsername(ctx, user.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("auth: username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	user.CreatedAt = time.Now()
	user.Profile = &domain.Profile{Role: role}

	return s.userRepo.Save(ctx, user)
}

func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseClaims(refreshToken)
	if err != nil {
		return "", err
	}
	if t, _ := claims["type"].(string); t != "refresh" {
		return "", fmt.Errorf("auth: not a refresh token")
	}

	userID, err := subjectID(claims)
	if err != nil {
		return "", err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil || user == nil {
		return "", fmt.Errorf("auth: user not found")
	}

	return s.generateAccessToken(user)
}

// ValidateToken is the identity collaborator: bearer credential in, user and
// role out. Lookups are cached briefly since every request and every
// websocket connect goes through here.
func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (*domain.User, error) {
	claims, err := s.parseClaims(tokenStr)
	if err != nil {
		return nil, err
	}
	if t, _ := claims["type"].(string); t != "access" {
		return nil, fmt.Errorf("auth: not an access token")
	}

	userID, err := subjectID(claims)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("auth:user:%d", userID)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var user domain.User
		if err := json.Unmarshal([]byte(cached), &user); err == nil {
			return &user, nil
		}
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("auth: user not found")
	}

	if data, err := json.Marshal(user); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(data), userCacheTTL); err != nil {
			s.log.Debug("Failed to cache user", zap.Error(err))
		}
	}

	return user, nil
}

func (s *Service) parseClaims(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("auth: invalid claims")
	}
	return claims, nil
}

func subjectID(claims jwt.MapClaims) (uint, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, fmt.Errorf("auth: missing subject")
	}
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("auth: bad subject: %w", err)
	}
	return uint(id), nil
}

func (s *Service) generateAccessToken(user *domain.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.RoleOrDefault()),
		"exp":  time.Now().Add(accessTokenTTL).Unix(),
		"type": "access",
	})
	return token.SignedString(s.jwtSecret)
}

func (s *Service) generateRefreshToken(user *domain.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"exp":  time.Now().Add(refreshTokenTTL).Unix(),
		"type": "refresh",
	})
	return token.SignedString(s.jwtSecret)
}
