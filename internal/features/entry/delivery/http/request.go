package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"giveaway-entry-backend/internal/features/entry/models"
)

// parseSubmitRequest accepts any JSON value except null. A value that is not
// an object carries no fields. Field values of other JSON types are turned
// into the text a browser would print for them, so {"email":5} is validated
// as "5" and [] counts as empty.
func parseSubmitRequest(body []byte) (*models.SubmitRequest, error) {
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if raw == nil {
		return nil, errors.New("decode body: null")
	}

	p := fieldParser{req: &models.SubmitRequest{}}
	p.fields, _ = raw.(map[string]interface{})

	p.req.GiveawayID = p.text("giveaway_id", false)
	p.req.Name = p.text("name", true)
	p.req.Email = p.text("email", true)
	p.req.Phone = p.text("phone", true)
	p.req.GiveawayTitle = p.title()
	p.req.Shared = p.shared()
	p.req.ShareCount = p.shareCount()

	return p.req, nil
}

type fieldParser struct {
	fields map[string]interface{}
	req    *models.SubmitRequest
}

// text returns "" for falsy values so the required-field check rejects them.
// mustBeString marks fields that are trimmed before storing; a non-string
// there is recorded in InvalidFields.
func (p *fieldParser) text(key string, mustBeString bool) string {
	v := p.fields[key]
	if !truthy(v) {
		return ""
	}
	if _, ok := v.(string); !ok && mustBeString {
		p.req.InvalidFields = append(p.req.InvalidFields, key)
	}
	return jsString(v)
}

func (p *fieldParser) title() *string {
	switch v := p.fields["giveaway_title"].(type) {
	case nil:
		return nil
	case string:
		return &v
	default:
		data, _ := json.Marshal(v)
		s := string(data)
		return &s
	}
}

func (p *fieldParser) shared() *bool {
	v, ok := p.fields["shared"]
	if !ok || v == nil {
		return nil
	}
	b := truthy(v)
	return &b
}

func (p *fieldParser) shareCount() *int {
	v, ok := p.fields["share_count"]
	if !ok || v == nil {
		return nil
	}

	n := 0
	if truthy(v) {
		var valid bool
		n, valid = toInt(v)
		if !valid {
			p.req.InvalidFields = append(p.req.InvalidFields, "share_count")
		}
	}
	return &n
}

func toInt(v interface{}) (int, bool) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) || math.Abs(x) > math.MaxInt32 {
			return 0, false
		}
		return int(x), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 32)
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}

// jsString mirrors String(value) for decoded JSON values.
func jsString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return jsNumber(x)
	case []interface{}:
		parts := make([]string, len(x))
		for i, el := range x {
			if el != nil {
				parts[i] = jsString(el)
			}
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

func jsNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	// 1.5e-07 -> 1.5e-7
	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + exp
}
