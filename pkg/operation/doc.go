/*
Package operation runs substitution jobs, one file at a time or concurrently.

	+-------------+
	|   Config    |
	| (targets)   |
	+------+------+
	       |
	+------+------+
	|    Jobs     |
	| rules/file  |
	+------+------+
	       |
	+------+------+
	|   Runner    |
	| sync/async  |
	+------+------+
	       |
	+------+------+
	| substitute  |
	| read/write  |
	+-------------+

🎯 Purpose:
- Turns expanded config targets into jobs, keeping only the rules whose file filter matches
- Rejects batches where two jobs would write the same file or one job would rewrite another's input
- Runs jobs in order, or concurrently with an errgroup when async is enabled

🔄 Flow:
1. JobsFromConfig builds jobs from config targets
2. Runner.Run validates the batch
3. Each job goes through substitute.Apply
4. The first failure stops the batch; outcomes collected so far are returned with the error
*/
package operation
