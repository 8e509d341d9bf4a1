package cid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	type testcase struct {
		name  string
		input string
		valid bool
	}
	testcases := []testcase{
		{
			name:  "valid v0",
			input: "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
			valid: true,
		},
		{
			name:  "valid v1",
			input: "bafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s52zy",
			valid: true,
		},
		{
			name:  "empty",
			input: "",
			valid: false,
		},
		{
			name:  "v0 wrong prefix",
			input: "QnYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG",
			valid: false,
		},
		{
			name:  "v0 too short",
			input: "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbd",
			valid: false,
		},
		{
			name:  "v0 excluded base58 character",
			input: "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbd0",
			valid: false,
		},
		{
			name:  "v1 wrong multibase prefix",
			input: "zafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s52zy",
			valid: false,
		},
		{
			name:  "v1 uppercase rejected",
			input: "bAFKREIGH2AKISCAILDCQABSYG3DFR6CHU3FGPREGIYMSCK7E7AQA4S52ZY",
			valid: false,
		},
		{
			name:  "v1 digit outside base32 alphabet",
			input: "bafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s520y",
			valid: false,
		},
		{
			name:  "path traversal attempt",
			input: "../../../etc/passwd",
			valid: false,
		},
		{
			name:  "url injection attempt",
			input: "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWn?x=1",
			valid: false,
		},
		{
			name:  "overlong",
			input: strings.Repeat("a", 128),
			valid: false,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, IsValid(tc.input))
		})
	}
}
