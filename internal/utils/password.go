package utils

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var dummyHash = sync.OnceValue(func() string {
	h, _ := HashPassword("postboard-timing-placeholder")
	return h
})

// BurnPasswordCheck costs as much as CheckPasswordHash. Login calls it
// for unknown usernames so both paths take similar time.
func BurnPasswordCheck(password string) {
	CheckPasswordHash(password, dummyHash())
}
