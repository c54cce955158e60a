package logger

import "strings"

// RedactEmail masks the mailbox part of an address so agent and
// recipient rows can be logged safely. The domain is kept for
// debuggability; at most the first two characters of the local part
// survive, and anything that is not a plain address is masked whole.
// "john.doe@corp.com" -> "jo***@corp.com", "ab@corp.com" -> "***@corp.com"
func RedactEmail(addr string) string {
	local, domain, ok := strings.Cut(addr, "@")
	if !ok || domain == "" || strings.Contains(domain, "@") {
		return "***@***"
	}
	if len(local) <= 2 {
		return "***@" + domain
	}
	return local[:2] + "***@" + domain
}
