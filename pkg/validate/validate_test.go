package validate_test

import (
	"strings"
	"testing"

	"github.com/Astemirdum/catalog-service/pkg/validate"
	"github.com/stretchr/testify/require"
)

type form struct {
	Name string `form:"name" validate:"required,max=5"`
	Born string `form:"born" validate:"omitempty,datetime=2006-01-02"`
}

func TestFieldErrors(t *testing.T) {
	t.Parallel()
	v := validate.NewCustomValidator()

	tests := []struct {
		name string
		in   form
		want map[string]string
	}{
		{
			name: "ok",
			in:   form{Name: "Bob", Born: "1958-06-15"},
			want: nil,
		},
		{
			name: "required",
			in:   form{},
			want: map[string]string{"name": "This field is required."},
		},
		{
			name: "too long",
			in:   form{Name: strings.Repeat("x", 7)},
			want: map[string]string{"name": "Ensure this value has at most 5 characters (it has 7)."},
		},
		{
			name: "bad date",
			in:   form{Name: "Bob", Born: "15/06/1958"},
			want: map[string]string{"born": "Enter a valid date."},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Validate(tt.in)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.Equal(t, tt.want, validate.FieldErrors(err))
		})
	}
}
