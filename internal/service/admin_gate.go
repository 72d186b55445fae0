package service

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// AdminGate checks the shared admin password carried on privileged
// requests. It holds only a bcrypt hash and keeps no session state.
type AdminGate struct {
	hash []byte
}

// NewAdminGate builds a gate from a plain password or, when passwordHash
// is set, from an existing bcrypt hash. cost <= 0 uses bcrypt.DefaultCost.
func NewAdminGate(password, passwordHash string, cost int) (*AdminGate, error) {
	if hash := strings.TrimSpace(passwordHash); hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return &AdminGate{hash: []byte(hash)}, nil
	}
	if password == "" {
		return nil, errors.New("admin password is required")
	}
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}
	return &AdminGate{hash: hash}, nil
}

// Check returns ErrUnauthorized unless password matches.
func (g *AdminGate) Check(password string) error {
	if password == "" {
		return ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(password)); err != nil {
		return ErrUnauthorized
	}
	return nil
}
