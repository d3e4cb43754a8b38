package domain

import "time"

const (
	UserCacheTTL         = 30 * time.Minute
	SessionCacheTTL      = 15 * time.Minute
	DOBCheckCacheTTL     = time.Hour
	UserDOBCheckCacheTTL = time.Minute
	TransactionsCacheTTL = 5 * time.Minute
)

func UserCacheKey(email string) string         { return "user_" + email }
func SessionCacheKey(email string) string      { return "session_" + email }
func DOBCheckCacheKey(email string) string     { return "dob_check_" + email }
func UserDOBCheckCacheKey(email string) string { return "user_dob_check_" + email }
func TransactionsCacheKey(email string) string { return "transactions_" + email }

// BalanceKeys are the cache keys that observe a user's credit balance.
func BalanceKeys(email string) []string {
	return []string{UserCacheKey(email), SessionCacheKey(email)}
}

// DOBKeys are the cache keys that observe a user's date of birth.
func DOBKeys(email string) []string {
	return []string{
		DOBCheckCacheKey(email),
		UserDOBCheckCacheKey(email),
		SessionCacheKey(email),
		UserCacheKey(email),
	}
}
