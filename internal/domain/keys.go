package domain

// KeyPrefix namespaces all strindex keys in the shared database.
const KeyPrefix = "strindex:"
