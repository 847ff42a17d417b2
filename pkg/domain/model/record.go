package model

// RecordQuery selects the records of a view page by page
type RecordQuery struct {
	BaseID   string
	Table    string
	View     string
	PageSize int
}

// Record is a single row returned by the tabular service
type Record struct {
	ID     string
	Fields map[string]any
}

// Page is one page of records. An empty Offset marks the last page.
type Page struct {
	Records []*Record
	Offset  string
}

// IsLast reports whether no further page follows
func (p *Page) IsLast() bool {
	return p.Offset == ""
}

// FirstAttachment returns the first attachment stored in the named field.
// The second return value is false when the field is missing, empty or not an
// attachment list.
func (r *Record) FirstAttachment(field string) (Attachment, bool) {
	if r == nil || r.Fields == nil {
		return Attachment{}, false
	}

	switch v := r.Fields[field].(type) {
	case []Attachment:
		if len(v) == 0 {
			return Attachment{}, false
		}
		return v[0], true

	case []any:
		if len(v) == 0 {
			return Attachment{}, false
		}
		entry, ok := v[0].(map[string]any)
		if !ok {
			return Attachment{}, false
		}
		att := attachmentFromMap(entry)
		if att.URL == "" {
			return Attachment{}, false
		}
		return att, true

	default:
		return Attachment{}, false
	}
}

func attachmentFromMap(m map[string]any) Attachment {
	att := Attachment{}
	att.ID, _ = m["id"].(string)
	att.URL, _ = m["url"].(string)
	att.Filename, _ = m["filename"].(string)
	att.Type, _ = m["type"].(string)

	// JSON numbers decode as float64
	switch size := m["size"].(type) {
	case float64:
		att.Size = int64(size)
	case int64:
		att.Size = size
	case int:
		att.Size = int64(size)
	}
	return att
}
