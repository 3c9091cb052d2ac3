// Package orchestrator turns one user request into three chained
// language-model rounds and records the exchange in the conversation store.
//
// Invariants:
//   - at most one run is in flight; concurrent calls are rejected, not queued.
//   - each round's reply is the next round's input.
//   - a successful run leaves no progress messages in the transcript; a failed
//     run keeps everything appended before the failure.
//
// Flow:
//
//	user -> [需求分析] -> analysis -> [技术评估] -> feasibility -> [代码生成] -> code
//	                                                                   |
//	                                                      extract -> animation
package orchestrator
