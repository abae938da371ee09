package session

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	testCases := []struct {
		name string
		a, b string
		want bool
	}{
		{
			name: "identical strings",
			a:    "Tuesday 4th November 8pm",
			b:    "Tuesday 4th November 8pm",
			want: true,
		},
		{
			name: "substring containment",
			a:    "nov 4",
			b:    "Tuesday 4th November 8pm",
			want: true,
		},
		{
			name: "day and month agree, weekday only on one side",
			a:    "4 Nov",
			b:    "Tue 4 November",
			want: true,
		},
		{
			name: "weekday absence does not block",
			a:    "4 Nov",
			b:    "Wed 4 November",
			want: true,
		},
		{
			name: "weekday conflict blocks",
			a:    "tue 4 nov",
			b:    "wed 4 nov",
			want: false,
		},
		{
			name: "month mismatch",
			a:    "4 Nov",
			b:    "4 Dec",
			want: false,
		},
		{
			name: "day of month mismatch",
			a:    "4 Nov",
			b:    "5 Nov",
			want: false,
		},
		{
			name: "bare number matches via containment only",
			a:    "4",
			b:    "4",
			want: true,
		},
		{
			name: "month absent on both sides never matches structurally",
			a:    "4 xyz",
			b:    "4 abc",
			want: false,
		},
		{
			name: "cross-format notification wording",
			a:    "Monday, November 4 - 8:00pm",
			b:    "mon 4 nov",
			want: true,
		},
		{
			name: "trailing numbers are ignored",
			a:    "4 November 11:45am-12:45pm",
			b:    "4 nov 8:00pm",
			want: true,
		},
		{
			name: "case and surrounding whitespace",
			a:    "  TUE 4TH NOV  ",
			b:    "tuesday 4 november",
			want: true,
		},
		{
			name: "no digits on one side",
			a:    "november",
			b:    "4 nov extras",
			want: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Matches(tc.a, tc.b))
			// must be commutative
			require.Equal(t, tc.want, Matches(tc.b, tc.a))
		})
	}
}
