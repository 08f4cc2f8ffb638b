package errs

import "github.com/m-mizutani/goerr/v2"

var (
	// Configuration and input errors (fatal, never retried)
	TagConfig = goerr.NewTag("config")
	TagData   = goerr.NewTag("data")

	// Bulk-load path
	TagJob     = goerr.NewTag("job")
	TagTimeout = goerr.NewTag("timeout")

	// Credential minting
	TagAuthConfig   = goerr.NewTag("auth_config")
	TagAuthExchange = goerr.NewTag("auth_exchange")

	// Document batch writes
	TagWrite = goerr.NewTag("write")

	// Remote service failures outside the taxonomy above
	TagExternal = goerr.NewTag("external")
)

func IsConfig(err error) bool  { return goerr.HasTag(err, TagConfig) }
func IsData(err error) bool    { return goerr.HasTag(err, TagData) }
func IsJob(err error) bool     { return goerr.HasTag(err, TagJob) }
func IsTimeout(err error) bool { return goerr.HasTag(err, TagTimeout) }
func IsWrite(err error) bool   { return goerr.HasTag(err, TagWrite) }
func IsAuth(err error) bool {
	return goerr.HasTag(err, TagAuthConfig) || goerr.HasTag(err, TagAuthExchange)
}
