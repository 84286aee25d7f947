package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefav/favorites-api/internal/core/domain"
	"github.com/cinefav/favorites-api/internal/core/ports"
)

func TestValidate_ValidRegistration(t *testing.T) {
	v := New()
	err := v.Validate(&ports.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "secret1"})
	assert.NoError(t, err)
}

func TestValidate_ReportsEveryField(t *testing.T) {
	v := New()
	err := v.Validate(&ports.RegisterInput{Name: "A", Email: "not-an-email", Password: "123"})
	require.Error(t, err)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))

	fields := make(map[string]string, len(ve.Fields))
	for _, f := range ve.Fields {
		fields[f.Field] = f.Message
	}
	assert.Len(t, fields, 3)
	assert.Equal(t, "name must be at least 2 characters", fields["name"])
	assert.Equal(t, "please provide a valid email", fields["email"])
	assert.Equal(t, "password must be at least 6 characters", fields["password"])
}

func TestValidate_NameTooLong(t *testing.T) {
	v := New()
	long := make([]rune, 51)
	for i := range long {
		long[i] = 'a'
	}
	err := v.Validate(&ports.RegisterInput{Name: string(long), Email: "a@b.com", Password: "secret1"})

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "name", ve.Fields[0].Field)
}

func TestValidate_EmailShape(t *testing.T) {
	v := New()
	cases := map[string]bool{
		"alice@example.com":     true,
		"first.last@mail.co.uk": true,
		"a-b@host.io":           true,
		"@example.com":          false,
		"alice@":                false,
		"alice@example":         false,
		"alice example@x.com":   false,
	}
	for email, ok := range cases {
		err := v.Validate(&ports.LoginInput{Email: email, Password: "x"})
		if ok {
			assert.NoError(t, err, email)
		} else {
			assert.Error(t, err, email)
		}
	}
}

func TestValidate_UsesJSONTagNames(t *testing.T) {
	type favoriteRequest struct {
		MovieID int `json:"movieId" validate:"required,gt=0"`
	}
	v := New()

	err := v.Validate(&favoriteRequest{MovieID: -3})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "movieId", ve.Fields[0].Field)
	assert.Equal(t, "movieId must be greater than 0", ve.Fields[0].Message)
}

func TestValidate_PasswordLimitCountsBytes(t *testing.T) {
	v := New()

	err := v.Validate(&ports.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: strings.Repeat("€", 30)})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "password", ve.Fields[0].Field)
	assert.Equal(t, "password cannot be more than 72 bytes", ve.Fields[0].Message)

	err = v.Validate(&ports.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: strings.Repeat("€", 24)})
	assert.NoError(t, err)
}
