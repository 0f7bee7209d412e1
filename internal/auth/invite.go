package auth

import (
	"crypto/rand"
	"fmt"
)

// 邀请码字符集：小写字母加数字
const inviteAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// InviteCodeLength is the fixed length of generated invite codes.
const InviteCodeLength = 6

// GenerateInviteCode returns a random lowercase-alphanumeric code used to
// attribute fry records to an agent. Callers are expected to check the code
// against existing accounts and regenerate on collision.
func GenerateInviteCode() (string, error) {
	buf := make([]byte, InviteCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = inviteAlphabet[int(b)%len(inviteAlphabet)]
	}
	return string(buf), nil
}
