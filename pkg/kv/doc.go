/*
Package kv is the KV Engine layer (SPEC_FULL.md §4.1): an ordered,
transactional, memory-mapped B+-tree store that every higher package talks
to instead of the underlying bbolt database directly.

	+-------------------------------------------------------------+
	|                         pkg/graphdb                          |
	+------+---------+-----------+------------+--------------------+
	| catalog | record | relation | secindex | txnmgr | query      |
	+---------+--------+----------+----------+--------+------------+
	|                         pkg/kv                                |
	|   Engine --- sibling lock file (flock) --- bbolt data file    |
	+-----------------------------------------------------------------+

Engine owns one environment directory: an advisory exclusive lock file
(lock.go, §6's "only one process may open an environment" rule) and the
bbolt data file inside it. Txn gives callers a manually-lifecycled
transaction instead of forcing bbolt's View/Update closure shape, because a
graph transaction's commit decision depends on work spanning several of the
packages above. Cursor and DupCursor give ordered iteration, including the
composite-key duplicate-value emulation bbolt's lack of native dup-sort
support requires.

Every error this package returns is a *gderrors.Error with a
CategoryStorage code; nothing above pkg/kv needs to know bbolt exists.
*/
package kv
