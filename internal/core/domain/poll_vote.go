package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Actor types reported by the chat server for the identity behind a vote.
const (
	ActorTypeUsers          = "users"
	ActorTypeGuests         = "guests"
	ActorTypeEmails         = "emails"
	ActorTypeFederatedUsers = "federated_users"
	ActorTypeBridged        = "bridged"
)

// PollVote is one participant's vote on a poll option, as listed in the
// details of a poll response. A nil ActorType means the server did not send one,
// which is not the same as an empty actor type.
type PollVote struct {
	ActorType        *string `json:"actorType,omitempty"`
	ActorID          string  `json:"actorId"`
	ActorDisplayName string  `json:"actorDisplayName"`
	OptionID         int     `json:"optionId"`
}

// NewPollVote returns the placeholder vote used before decoding completes.
func NewPollVote() PollVote {
	return PollVote{
		ActorType:        nil,
		ActorID:          "",
		ActorDisplayName: "",
		OptionID:         0,
	}
}

// DecodePollVote builds a vote from one element of a decoded vote list.
// Missing keys fall back to the NewPollVote defaults; keys of the wrong shape
// yield an error wrapping ErrMalformedVote.
func DecodePollVote(raw any) (PollVote, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return PollVote{}, fmt.Errorf("%w: expected object, got %T", ErrMalformedVote, raw)
	}

	vote := NewPollVote()

	if v, present := obj["actorType"]; present && v != nil {
		s, ok := v.(string)
		if !ok {
			return PollVote{}, fmt.Errorf("%w: actorType must be a string, got %T", ErrMalformedVote, v)
		}
		vote.ActorType = &s
	}

	var err error
	if vote.ActorID, err = optionalString(obj, "actorId"); err != nil {
		return PollVote{}, err
	}
	if vote.ActorDisplayName, err = optionalString(obj, "actorDisplayName"); err != nil {
		return PollVote{}, err
	}
	if vote.OptionID, err = optionalInt(obj, "optionId"); err != nil {
		return PollVote{}, err
	}

	return vote, nil
}

// Encode returns the wire form of the vote. The actorType key is only set
// when the vote carries an actor type.
func (v PollVote) Encode() map[string]any {
	raw := map[string]any{
		"actorId":          v.ActorID,
		"actorDisplayName": v.ActorDisplayName,
		"optionId":         v.OptionID,
	}
	if v.ActorType != nil {
		raw["actorType"] = *v.ActorType
	}
	return raw
}

// Equal reports whether both votes hold the same four values.
func (v PollVote) Equal(other PollVote) bool {
	if (v.ActorType == nil) != (other.ActorType == nil) {
		return false
	}
	if v.ActorType != nil && *v.ActorType != *other.ActorType {
		return false
	}
	return v.ActorID == other.ActorID &&
		v.ActorDisplayName == other.ActorDisplayName &&
		v.OptionID == other.OptionID
}

// HasActorType reports whether the server sent an actor type for this vote.
func (v PollVote) HasActorType() bool {
	return v.ActorType != nil
}

// ActorKey identifies the voter across actor namespaces. A vote without an
// actor type gets its own namespace, apart from an empty actor type.
func (v PollVote) ActorKey() string {
	if v.ActorType == nil {
		return "\x00/" + v.ActorID
	}
	return *v.ActorType + "/" + v.ActorID
}

func (v PollVote) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Encode())
}

func (v *PollVote) UnmarshalJSON(data []byte) error {
	raw, err := decodeRaw(data)
	if err != nil {
		return err
	}
	vote, err := DecodePollVote(raw)
	if err != nil {
		return err
	}
	*v = vote
	return nil
}

// MarshalBinary flattens the vote into the payload handed to other
// components, such as a message on the vote topic.
func (v PollVote) MarshalBinary() ([]byte, error) {
	return v.MarshalJSON()
}

func (v *PollVote) UnmarshalBinary(data []byte) error {
	return v.UnmarshalJSON(data)
}

func decodeRaw(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedVote, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after JSON value", ErrMalformedVote)
	}
	return raw, nil
}

func optionalString(obj map[string]any, key string) (string, error) {
	v, present := obj[key]
	if !present || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrMalformedVote, key, v)
	}
	return s, nil
}

func optionalInt(obj map[string]any, key string) (int, error) {
	v, present := obj[key]
	if !present || v == nil {
		return 0, nil
	}

	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return intFromInt64(key, n)
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return intFromInt64(key, int64(n))
	case uint:
		return intFromUint64(key, uint64(n))
	case uint64:
		return intFromUint64(key, n)
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, fmt.Errorf("%w: %s must be an integer, got %v", ErrMalformedVote, key, n)
		}
		return intFromInt64(key, int64(n))
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrMalformedVote, key, n.String())
		}
		return intFromInt64(key, i)
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be numeric, got %q", ErrMalformedVote, key, n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer, got %T", ErrMalformedVote, key, v)
	}
}

func intFromInt64(key string, n int64) (int, error) {
	if int64(int(n)) != n {
		return 0, fmt.Errorf("%w: %s out of range: %d", ErrMalformedVote, key, n)
	}
	return int(n), nil
}

func intFromUint64(key string, n uint64) (int, error) {
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %s out of range: %d", ErrMalformedVote, key, n)
	}
	return intFromInt64(key, int64(n))
}
