package snapshot

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/thedevz43/landrecords/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Codec serializes an identity to and from the persisted snapshot value.
// The value is an HS256-signed JWT: a snapshot that was edited, truncated or
// written by anything other than this process fails signature verification
// and decodes as an error, which the session store treats as "no session".
type Codec struct {
	signingKey []byte
}

// NewCodec creates a Codec with the given signing key.
func NewCodec(signingKey []byte) (*Codec, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("[NewCodec] signing key is required")
	}
	return &Codec{signingKey: signingKey}, nil
}

// Encode serializes a user identity into a signed snapshot value.
func (c *Codec) Encode(u users.User) (string, error) {
	if err := u.Validate(); err != nil {
		return "", errors.Wrap(err, "[Codec.Encode] invalid identity")
	}

	claims := jwtlib.MapClaims{
		"sub":   u.ID,
		"name":  u.Name,
		"email": u.Email,
		"role":  string(u.Role),
		"iat":   NowTimeFunc().Unix(),
	}
	if u.Aadhaar != "" {
		claims["aadhaar"] = u.Aadhaar
	}
	if u.Phone != "" {
		claims["phone"] = u.Phone
	}
	if u.Department != "" {
		claims["department"] = u.Department
	}
	if u.Designation != "" {
		claims["designation"] = u.Designation
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", errors.Wrap(err, "[Codec.Encode] signing snapshot")
	}
	return signed, nil
}

// Decode verifies and deserializes a snapshot value back into an identity.
func (c *Codec) Decode(value string) (users.User, error) {
	token, err := jwtlib.Parse(value,
		func(t *jwtlib.Token) (any, error) { return c.signingKey, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return users.User{}, errors.Wrap(err, "[Codec.Decode] parsing snapshot")
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return users.User{}, errors.New("[Codec.Decode] unexpected claims type")
	}

	role, err := users.ParseRole(stringClaim(claims, "role"))
	if err != nil {
		return users.User{}, errors.Wrap(err, "[Codec.Decode] snapshot role")
	}

	u := users.User{
		ID:          stringClaim(claims, "sub"),
		Name:        stringClaim(claims, "name"),
		Email:       stringClaim(claims, "email"),
		Role:        role,
		Aadhaar:     stringClaim(claims, "aadhaar"),
		Phone:       stringClaim(claims, "phone"),
		Department:  stringClaim(claims, "department"),
		Designation: stringClaim(claims, "designation"),
	}
	if err := u.Validate(); err != nil {
		return users.User{}, errors.Wrap(err, "[Codec.Decode] invalid identity")
	}
	return u, nil
}

func stringClaim(claims jwtlib.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
