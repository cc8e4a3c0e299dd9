/*
Package gderrors implements the error model described in SPEC_FULL.md §7:
every error the core returns partitions into CategoryUsage, CategoryStorage,
or CategoryFatal, and carries one of the stable Codes from §6.

Usage errors are constructed with Usage(code, format, args...) and returned
normally; they leave the transaction alive and recoverable. Storage errors
wrap a KV-layer failure with Storage(code, cause) and always abort the
current transaction at the call site (the component that produced them does
not attempt partial cleanup — the transaction's rollback does that). Fatal
errors never return: Fatal(code, format, args...) logs and exits the
process, for conditions a caller has no way to correct by retrying.

Components compare against specific failures with errors.Is / errors.As or
the CodeOf/IsCode helpers, never by matching message substrings.
*/
package gderrors
