package qrtoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType membedakan QR token meja dari jenis token lain yang mungkin
// ditambahkan nanti. Decode menolak token dengan type lain.
const TokenType = "table_qr"

// DefaultLifetime dipakai jika QR_TOKEN_LIFETIME tidak diset (30 hari).
const DefaultLifetime = 30 * 24 * time.Hour

var (
	ErrTokenExpired   = errors.New("qr token has expired")
	ErrTokenMalformed = errors.New("qr token is malformed or has an invalid signature")
	ErrWrongTokenType = errors.New("token is not a table qr token")
)

// Claims adalah isi QR token: meja mana, restoran mana, kapan diterbitkan.
type Claims struct {
	TableID      uint   `json:"table_id"`
	RestaurantID string `json:"restaurant_id"`
	Timestamp    int64  `json:"timestamp"` // epoch millis saat issue
	TokenType    string `json:"type"`
	jwt.RegisteredClaims
}

// Codec menerbitkan dan memverifikasi QR token dengan secret dan masa
// berlaku yang ditentukan sekali saat startup. Tidak membaca env di sini.
type Codec struct {
	secret   []byte
	lifetime time.Duration
}

func NewCodec(secret []byte, lifetime time.Duration) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("qrtoken: signing secret must not be empty")
	}
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Codec{secret: secret, lifetime: lifetime}, nil
}

func (cd *Codec) Lifetime() time.Duration {
	return cd.lifetime
}

// Issue menandatangani token baru untuk satu meja. Murni fungsi atas input,
// tanpa akses storage, supaya gampang dites dengan "now" buatan.
func (cd *Codec) Issue(tableID uint, restaurantID string, now time.Time) (string, error) {
	claims := &Claims{
		TableID:      tableID,
		RestaurantID: restaurantID,
		Timestamp:    now.UnixMilli(),
		TokenType:    TokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cd.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(cd.secret)
	if err != nil {
		return "", fmt.Errorf("sign qr token: %w", err)
	}
	return signed, nil
}

// Decode memverifikasi signature + expiry dan mengembalikan claims.
// Error selalu salah satu dari ErrTokenExpired, ErrTokenMalformed,
// ErrWrongTokenType supaya caller bisa memetakan pesan untuk user.
func (cd *Codec) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return cd.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}
	if claims.TokenType != TokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
