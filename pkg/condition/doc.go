/*
Package condition implements the stop conditions that bound a generated test sequence.

Every condition is bound to its machine (or clock) at construction and reports two things:
whether it is fulfilled, and how far along it is as a fraction in [0, 1] that never decreases.

Conditions added one after another are folded into a Combination, which is fulfilled as soon
as any of its members is:

	var stop condition.StopCondition
	stop = condition.Fold(stop, condition.NewEdgeCoverage(m, 1.0))
	stop = condition.Fold(stop, condition.NewTestCaseLength(m, 500))
*/
package condition
