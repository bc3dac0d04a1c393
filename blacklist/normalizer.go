package blacklist

import (
	"encoding/json"
	"strings"

	"github.com/itchyny/gojq"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
)

const (
	recordCount = 3

	maxPreviewLength = 200
)

var (
	// infoQuery selects the record list of the flat layout: {"info": [user, stats, blacklist]}
	infoQuery = mustCompile(".info")

	// nestedInfoQuery selects the record list of the nested layout: {"info": [{"info": [user, stats, blacklist]}]}
	nestedInfoQuery = mustCompile(".info | arrays | .[0] | objects | .info")
)

func mustCompile(src string) *gojq.Code {
	q, err := gojq.Parse(src)
	if err != nil {
		panic(err)
	}

	code, err := gojq.Compile(q)
	if err != nil {
		panic(err)
	}

	return code
}

// Normalize decodes a blacklist payload into a Report. It fails with KindMalformedJSON if the
// body isn't a json object, KindNoRecord if it holds no info and KindIncompleteRecord if fewer
// than the three expected records are found. No field is read in the last two cases
func Normalize(body []byte) (r Report, err error) {
	var payload interface{}
	if err = json.Unmarshal(body, &payload); err != nil {
		return r, malformed(body, err)
	}

	if _, ok := payload.(map[string]interface{}); !ok {
		return r, malformed(body, errors.Errorf("expected a json object but got %T", payload))
	}

	info, err := queryFirst(infoQuery, payload)
	if err != nil {
		return r, newError(KindMalformedJSON, err)
	}

	if isBlank(info) {
		return r, newError(KindNoRecord, errors.New("no info in payload"))
	}

	records, err := recordList(payload, info)
	if err != nil {
		return r, err
	}

	user, stats, bl := fields(records[0]), fields(records[1]), fields(records[2])

	r.User = UserRecord{
		User:             user.text("user", unknownValue),
		PhoneBound:       user.flag("tel"),
		WechatBound:      user.flag("wx"),
		AlipayBound:      user.flag("zfb"),
		RealNameVerified: user.flag("shiming"),
	}

	r.Stats = StatsRecord{
		GroupCount:      stats.text("group_num", unknownValue),
		MonthlySendings: stats.text("m_send_num", unknownValue),
		TotalSendings:   stats.text("send_num", unknownValue),
		FirstSend:       stats.text("first_send", noRecordValue),
		LastSend:        stats.text("last_send", noRecordValue),
	}

	r.Blacklist = BlacklistRecord{
		Blacklisted: bl.flag("yh"),
		Type:        TypeLabel(bl.text("type", defaultTypeCode)),
		Note:        bl.text("note", noNoteValue),
		Admin:       bl.text("admin", unknownValue),
		Level:       bl.text("level", noLevelValue),
		Date:        bl.text("date", noRecordValue),
	}

	return r, nil
}

// malformed returns a KindMalformedJSON error carrying the start of body
func malformed(body []byte, err error) *Error {
	e := newError(KindMalformedJSON, err)

	preview := []rune(string(body))
	if len(preview) > maxPreviewLength {
		preview = preview[:maxPreviewLength]
	}
	e.BodyPreview = string(preview)

	return e
}

// recordList returns the three records using the flat layout first and the nested one otherwise
func recordList(payload interface{}, info interface{}) (records []map[string]interface{}, err error) {
	candidates, _ := info.([]interface{})

	if len(candidates) < recordCount {
		nested, err := queryFirst(nestedInfoQuery, payload)
		if err != nil {
			return nil, newError(KindMalformedJSON, err)
		}

		if list, ok := nested.([]interface{}); ok {
			candidates = list
		}
	}

	if len(candidates) < recordCount {
		return nil, newError(KindIncompleteRecord, errors.Errorf("expected %d records but found %d", recordCount, len(candidates)))
	}

	records = make([]map[string]interface{}, recordCount)
	for i := range records {
		rec, ok := candidates[i].(map[string]interface{})
		if !ok {
			return nil, newError(KindIncompleteRecord, errors.Errorf("record [%d] isn't an object but %T", i, candidates[i]))
		}

		records[i] = rec
	}

	return records, nil
}

// queryFirst returns the first value emitted by the query or nil if it emits nothing
func queryFirst(code *gojq.Code, input interface{}) (v interface{}, err error) {
	iter := code.Run(input)

	v, ok := iter.Next()
	if !ok {
		return nil, nil
	}

	if err, isErr := v.(error); isErr {
		return nil, err
	}

	return v, nil
}

// isBlank reports whether v is absent or empty: null, false, zero, "", [] or {}
func isBlank(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case string:
		return t == ""
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	}

	return false
}

// fields gives typed access to an upstream record
type fields map[string]interface{}

// text returns the value at key as a string or fallback if it's missing, null, blank or not a scalar
func (f fields) text(key string, fallback string) string {
	v, ok := f[key]
	if !ok || v == nil {
		return fallback
	}

	s, err := cast.ToStringE(v)
	if err != nil || strings.TrimSpace(s) == "" {
		return fallback
	}

	return s
}

// flag returns true only if the value at key is "true", ignoring case
func (f fields) flag(key string) bool {
	return strings.EqualFold(f.text(key, ""), "true")
}
