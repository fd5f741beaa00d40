package semantics

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
)

// RegisterFaker installs realistic-data hooks backed by faker: name,
// email, url, domain, ipv4, user-agent and sentence. The sentence hook
// honors an optional integer "words" parameter.
func RegisterFaker(d *Dispatcher, faker *gofakeit.Faker) {
	simple := map[string]func() string{
		"name":       faker.Name,
		"email":      faker.Email,
		"url":        faker.URL,
		"domain":     faker.DomainName,
		"ipv4":       faker.IPv4Address,
		"user-agent": faker.UserAgent,
	}
	for name, fn := range simple {
		fn := fn
		d.Register(name, func(_ *Context, _ map[string]any) (any, error) {
			return fn(), nil
		})
	}
	d.Register("sentence", func(_ *Context, params map[string]any) (any, error) {
		words := 6
		if raw, ok := params["words"]; ok {
			f, ok := toInt(raw)
			if !ok || f < 1 {
				return nil, fmt.Errorf("%w: sentence \"words\" must be a positive integer", ErrBadParams)
			}
			words = f
		}
		return faker.Sentence(words), nil
	})
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
