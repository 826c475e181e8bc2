package repository

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound            = errors.New("document not found")
	ErrDuplicateNationalID = errors.New("aadhar card number already registered")
	ErrAdminExists         = errors.New("admin user already exists")
)

// classifyWriteError maps duplicate key violations on the user indexes to sentinels.
func classifyWriteError(err error) error {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, singleAdminIndex):
		return ErrAdminExists
	case strings.Contains(msg, nationalIDIndex):
		return ErrDuplicateNationalID
	}
	return err
}
