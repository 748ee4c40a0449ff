package template

// ContentData is the per-render variable bag supplied by the caller.
//
// It is an open string-keyed map, not a closed record: the named keys below
// are the conventional slots filled by the surrounding product, but custom
// layers may bind to arbitrary additional keys via Element.VariableID.
type ContentData map[string]string

// Conventional content keys. Title is the only one expected to be present.
const (
	KeyTitle         = "title"
	KeySubtitle      = "subtitle"
	KeyFooter        = "footer"
	KeyAuthor        = "author"
	KeyAuthorAvatar  = "authorAvatar"
	KeyDate          = "date"
	KeyFeaturedImage = "featuredImage"
)

// Get returns the value for key, or "" when the bag is nil or the key is
// absent. Renderers treat an empty value as unresolved and fall back to the
// layer's static content.
func (c ContentData) Get(key string) string {
	if c == nil {
		return ""
	}
	return c[key]
}

// Clone returns a copy of the bag. A nil bag clones to nil.
func (c ContentData) Clone() ContentData {
	if c == nil {
		return nil
	}
	out := make(ContentData, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
