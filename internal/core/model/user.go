package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var nationalIDPattern = regexp.MustCompile(`^\d{12}$`)

var ErrInvalidNationalID = errors.New("aadhar card number must be exactly 12 digits")

// NationalID is the 12-digit Aadhar card number used as the login key.
// It decodes from either a JSON string or a JSON number.
type NationalID string

func (n *NationalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NationalID(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = NationalID(num.String())
	return nil
}

func (n NationalID) Validate() error {
	if !nationalIDPattern.MatchString(string(n)) {
		return ErrInvalidNationalID
	}
	return nil
}

type User struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name             string             `json:"name" bson:"name"`
	Age              int                `json:"age" bson:"age"`
	Email            string             `json:"email,omitempty" bson:"email,omitempty"`
	Mobile           string             `json:"mobile,omitempty" bson:"mobile,omitempty"`
	Address          string             `json:"address" bson:"address"`
	AadharCardNumber NationalID         `json:"aadharCardNumber" bson:"aadharCardNumber"`
	Password         string             `json:"-" bson:"password"` // bcrypt hash
	Role             Role               `json:"role" bson:"role"`
	IsVoted          bool               `json:"isVoted" bson:"isVoted"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
}

func NewUser(name string, nationalID NationalID, role Role) *User {
	return &User{
		ID:               primitive.NewObjectID(),
		Name:             name,
		AadharCardNumber: nationalID,
		Role:             role,
		CreatedAt:        time.Now().UTC(),
	}
}

// HashPassword returns the bcrypt hash stored for plain.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SetPassword replaces the stored hash with a bcrypt hash of plain.
func (u *User) SetPassword(plain string) error {
	hash, err := HashPassword(plain)
	if err != nil {
		return err
	}
	u.Password = hash
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
