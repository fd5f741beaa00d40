package semantics

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stixlab/stixgen/constraints"
)

// stixTimeLayout is the canonical STIX timestamp form: RFC 3339 in UTC
// with millisecond precision and a literal Z designator.
const stixTimeLayout = "2006-01-02T15:04:05.000Z"

// RegisterSTIX installs the STIX-flavored hooks on d: stix-id,
// stix-timestamp, sha-256 and sha-512.
func RegisterSTIX(d *Dispatcher) {
	d.Register("stix-id", stixID)
	d.Register("stix-timestamp", stixTimestamp)
	d.Register("sha-256", sha256Hex)
	d.Register("sha-512", sha512Hex)
}

// stixID produces "<stix-type>--<uuidv4>". The object type comes from the
// "stix-type" parameter. The UUID's randomness is drawn from ctx.Rand, so
// identifiers are reproducible under a fixed seed.
func stixID(ctx *Context, params map[string]any) (any, error) {
	stixType, ok := params["stix-type"].(string)
	if !ok || stixType == "" {
		return nil, fmt.Errorf("%w: stix-id requires a \"stix-type\" string parameter", ErrBadParams)
	}
	id, err := uuid.NewRandomFromReader(ctx.Rand)
	if err != nil {
		return nil, fmt.Errorf("semantics: stix-id: %w", err)
	}
	return stixType + "--" + id.String(), nil
}

// maxSkew bounds how far generated timestamps stray from their anchor.
const maxSkew = 365 * 24 * time.Hour

// stixTimestamp produces a STIX timestamp. Without a constraint the value
// lands within a year of the current time. With one, the anchor is the
// constrained sibling value and the offset direction follows the operator.
func stixTimestamp(ctx *Context, _ map[string]any) (any, error) {
	c := ctx.Constraint
	if c == nil {
		skew := time.Duration(ctx.Rand.Int63n(int64(2*maxSkew))) - maxSkew
		return time.Now().UTC().Add(skew).Format(stixTimeLayout), nil
	}

	anchorStr, ok := c.Value.(string)
	if !ok {
		return nil, fmt.Errorf("%w: stix-timestamp constraint value %v is not a timestamp", ErrBadParams, c.Value)
	}
	anchor, err := time.Parse(stixTimeLayout, anchorStr)
	if err != nil {
		return nil, fmt.Errorf("%w: stix-timestamp constraint value %q: %v", ErrBadParams, anchorStr, err)
	}

	// Strict operators offset by at least one millisecond, the layout's
	// resolution; inclusive ones may reproduce the anchor exactly.
	var skew time.Duration
	switch c.Op {
	case constraints.EQ:
		return anchor.Format(stixTimeLayout), nil
	case constraints.LT:
		skew = -randomSkew(ctx, time.Millisecond)
	case constraints.LE:
		skew = -randomSkew(ctx, 0)
	case constraints.GT:
		skew = randomSkew(ctx, time.Millisecond)
	case constraints.GE:
		skew = randomSkew(ctx, 0)
	case constraints.NE:
		skew = randomSkew(ctx, time.Millisecond)
		if ctx.Rand.Intn(2) == 0 {
			skew = -skew
		}
	}
	return anchor.Add(skew).UTC().Format(stixTimeLayout), nil
}

func randomSkew(ctx *Context, min time.Duration) time.Duration {
	skew := min + time.Duration(ctx.Rand.Int63n(int64(maxSkew-min)))
	return skew.Truncate(time.Millisecond)
}

// sha256Hex hashes random input and returns the lowercase hex digest.
func sha256Hex(ctx *Context, _ map[string]any) (any, error) {
	sum := sha256.Sum256(randomBytes(ctx))
	return hex.EncodeToString(sum[:]), nil
}

// sha512Hex hashes random input and returns the lowercase hex digest.
func sha512Hex(ctx *Context, _ map[string]any) (any, error) {
	sum := sha512.Sum512(randomBytes(ctx))
	return hex.EncodeToString(sum[:]), nil
}

func randomBytes(ctx *Context) []byte {
	buf := make([]byte, 16)
	ctx.Rand.Read(buf)
	return buf
}
