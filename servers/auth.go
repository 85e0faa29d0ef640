/*
 * Copyright (c) Joseph Prichard 2024
 */

package servers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

var ErrInvalidToken = errors.New("Token is invalid or expired")
var ErrWrongTable = errors.New("Token was not issued for this table")

type Authenticator interface {
	GenerateToken(code string) (string, error)
	Authorize(token string, code string) error
}

// TableClaims binds a token to the table it was issued for, the device holding it controls that table
type TableClaims struct {
	Code string `json:"code"`
	jwt.RegisteredClaims
}

type AuthServer struct {
	jwtKey []byte
	ttl    time.Duration
}

func NewAuthServer(jwtKey string, ttl time.Duration) *AuthServer {
	return &AuthServer{jwtKey: []byte(jwtKey), ttl: ttl}
}

func (server *AuthServer) keyFunc(_ *jwt.Token) (interface{}, error) {
	return server.jwtKey, nil
}

func (server *AuthServer) GenerateToken(code string) (string, error) {
	now := time.Now()
	claims := TableClaims{
		Code: code,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(server.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(server.jwtKey)
	if err != nil {
		return "", fmt.Errorf("Failed to generate token for table %s: %w", code, err)
	}
	return tokenString, nil
}

func (server *AuthServer) ParseToken(token string) (TableClaims, error) {
	var claims TableClaims
	if token == "" {
		return claims, ErrInvalidToken
	}
	jwtToken, err := jwt.ParseWithClaims(token, &claims, server.keyFunc, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		log.Debug().Err(err).Msg("Failed to parse jwt")
		return claims, ErrInvalidToken
	}
	if !jwtToken.Valid {
		return claims, ErrInvalidToken
	}
	return claims, nil
}

// Authorize checks that the token is valid and was issued for the table code
func (server *AuthServer) Authorize(token string, code string) error {
	claims, err := server.ParseToken(token)
	if err != nil {
		return err
	}
	if claims.Code != code {
		return ErrWrongTable
	}
	return nil
}
