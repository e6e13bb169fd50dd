package markup

// Cache stores rendered fragments keyed by source text.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// CachedFormatter memoizes Format by input text.
type CachedFormatter struct {
	formatter *Formatter
	cache     Cache
}

// NewCached wraps f with cache. A nil f uses the default rules.
func NewCached(f *Formatter, cache Cache) *CachedFormatter {
	if f == nil {
		f = defaultFormatter
	}
	return &CachedFormatter{formatter: f, cache: cache}
}

func (c *CachedFormatter) Format(text string) string {
	if text == "" || c.cache == nil {
		return c.formatter.Format(text)
	}
	if out, ok := c.cache.Get(text); ok {
		return out
	}
	out := c.formatter.Format(text)
	c.cache.Set(text, out)
	return out
}
