package ledger

// Lock key prefix for per-account critical sections
const accountLockPrefix = "ledger:account:"
