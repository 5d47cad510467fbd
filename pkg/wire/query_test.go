package wire

import (
	"strings"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeHeader(t *testing.T) {
	msg, err := Encode("example.com")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(msg), headerLength)

	wantHeader := []byte{
		0x12, 0x34, // transaction ID
		0x01, 0x00, // standard query, recursion desired
		0x00, 0x01, // QDCOUNT
		0x00, 0x00, // ANCOUNT
		0x00, 0x00, // NSCOUNT
		0x00, 0x00, // ARCOUNT
	}
	assert.Equal(t, wantHeader, msg[:headerLength])
}

func TestEncodeQuestion(t *testing.T) {
	tests := []struct {
		domain string
		labels []string
	}{
		{"example.com", []string{"example", "com"}},
		{"tieba.baidu.com", []string{"tieba", "baidu", "com"}},
		{"a.b.c.d.e", []string{"a", "b", "c", "d", "e"}},
		{"example.com.", []string{"example", "com"}},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			msg, err := Encode(tt.domain)
			require.NoError(t, err)

			// Walk the length-prefixed labels after the header.
			var got []string
			i := headerLength
			for msg[i] != 0 {
				n := int(msg[i])
				got = append(got, string(msg[i+1:i+1+n]))
				i += 1 + n
			}
			assert.Equal(t, tt.labels, got)

			// Zero terminator, then QTYPE=A and QCLASS=IN close the message.
			trailer := msg[i:]
			assert.Equal(t, []byte{0x00, 0x00, 0x01, 0x00, 0x01}, trailer)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	// The encoder is hand-rolled; make sure a real DNS implementation
	// parses its output.
	msg, err := Encode("speed.test.example.org")
	require.NoError(t, err)

	var parsed dns.Msg
	require.NoError(t, parsed.Unpack(msg))

	require.Len(t, parsed.Question, 1)
	q := parsed.Question[0]
	assert.Equal(t, "speed.test.example.org.", q.Name)
	assert.Equal(t, dns.TypeA, q.Qtype)
	assert.Equal(t, uint16(dns.ClassINET), q.Qclass)
	assert.Equal(t, uint16(0x1234), parsed.Id)
	assert.True(t, parsed.RecursionDesired)
	assert.False(t, parsed.Response)
}

func TestEncodeErrors(t *testing.T) {
	longLabel := strings.Repeat("x", 64)

	tests := []struct {
		name    string
		domain  string
		wantErr error
	}{
		{"empty domain", "", ErrEmptyDomain},
		{"lone dot", ".", ErrEmptyLabel},
		{"empty middle label", "a..b", ErrEmptyLabel},
		{"leading dot", ".example.com", ErrEmptyLabel},
		{"label over 63 bytes", longLabel + ".com", ErrLabelTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Encode(tt.domain)
			assert.Nil(t, msg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEncodeMaxLengthLabel(t *testing.T) {
	// 63 bytes is the longest legal label.
	label := strings.Repeat("y", 63)
	msg, err := Encode(label + ".com")
	require.NoError(t, err)

	var parsed dns.Msg
	require.NoError(t, parsed.Unpack(msg))
	assert.Equal(t, label+".com.", parsed.Question[0].Name)
}
