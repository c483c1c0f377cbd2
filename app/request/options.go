package request

// Options carries per-call settings that override the client defaults.
type Options struct {
	APIKey         string
	ConnectAccount string
	IdempotencyKey string
}

type Option func(*Options)

func WithAPIKey(key string) Option {
	return func(o *Options) { o.APIKey = key }
}

// WithConnectAccount issues the call on behalf of a connected account.
func WithConnectAccount(accountID string) Option {
	return func(o *Options) { o.ConnectAccount = accountID }
}

func WithIdempotencyKey(key string) Option {
	return func(o *Options) { o.IdempotencyKey = key }
}

func applyOptions(defaults Options, opts []Option) Options {
	result := defaults
	for _, opt := range opts {
		if opt != nil {
			opt(&result)
		}
	}
	return result
}
