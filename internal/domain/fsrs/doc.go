// Package fsrs implements the Free Spaced Repetition Scheduler (FSRS-4.5) used
// to decide when a word should next be reviewed.
//
// Schedule is a pure function from (card state, rating, time, parameters) to
// the next card state. It holds no state of its own and performs no I/O.
// Service wraps it with input validation and is what the rest of the
// application calls.
//
// Formulas follow the FSRS-4.5 weight layout (17 weights). Difficulty
// mean-reverts toward the initial difficulty of an Easy item, and intervals are
// derived as S * ln(requestRetention) / ln(0.9), rounded to whole days only at
// that final step.
package fsrs
