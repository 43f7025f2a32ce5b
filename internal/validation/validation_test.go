package validation

import (
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		return ""
	}
	fe, ok := err.(*FieldError)
	require.True(t, ok)
	return fe.Message
}

func TestRuleBoundaries(t *testing.T) {
	cases := []struct {
		rule  Rule
		value string
		want  string
	}{
		{Username, "", "username cannot be empty"},
		{Username, "a", "username cannot be empty"},
		{Username, "ab", ""},
		{Username, strings.Repeat("a", 20), ""},
		{Username, strings.Repeat("a", 21), "username too long"},
		{Password, "a", "password cannot be empty"},
		{Password, "abcdefg", "password too short"},
		{Password, "abcdefgh", ""},
		{Password, strings.Repeat("p", 41), "password too long"},
		{Content, strings.Repeat("c", 225), ""},
		{Content, strings.Repeat("c", 226), "content too long"},
		{Title, "hi", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, message(t, tc.rule.Validate(tc.value)), "%s=%q", tc.rule.Name, tc.value)
	}
}

func TestLengthIsBytes(t *testing.T) {
	// 11 runes, 22 bytes
	assert.Equal(t, "username too long", message(t, Username.Validate("ééééééééééé")))
}

type signup struct {
	Username string `json:"username" binding:"username_len"`
	Email    string `json:"email" binding:"email_len"`
	Password string `json:"password" binding:"password_len"`
}

func TestFromBindingCollectsEveryField(t *testing.T) {
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, Register(v))

	err := v.Struct(signup{Username: "a", Email: "a@x.co", Password: "short"})
	require.Error(t, err)

	errs, ok := FromBinding(err)
	require.True(t, ok)
	assert.Equal(t, Errors{
		"username": "username cannot be empty",
		"password": "password too short",
	}, errs)

	assert.NoError(t, v.Struct(signup{Username: "alice", Email: "a@x.co", Password: "password1"}))
}

func TestFromBindingIgnoresOtherErrors(t *testing.T) {
	_, ok := FromBinding(assert.AnError)
	assert.False(t, ok)
}

func TestErrorsKeepsFirstMessage(t *testing.T) {
	errs := Errors{}
	errs.Add(&FieldError{Field: "email", Message: "email already exists"})
	errs.Add(&FieldError{Field: "email", Message: "email too long"})
	errs.Add(assert.AnError)
	assert.Equal(t, Errors{"email": "email already exists"}, errs)
	assert.False(t, errs.Empty())
}
