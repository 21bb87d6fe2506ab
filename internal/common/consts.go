package common

// UnknownStr is the String() result for out-of-range enumeration values.
const UnknownStr = "unknown"
