// Command burstpick keeps the sharpest frame of every camera burst in a
// directory and relocates the remaining frames into an output directory.
//
// Usage:
//
//	burstpick run SOURCE [-o DEST] [-t THRESHOLD] [--prefix C] [--workers N]
//	burstpick score SOURCE
//	burstpick blurmap IMAGE -o OUT.png
//	burstpick config init [--path PATH]
//
// Exit codes: 0 success, 1 error, 2 source directory missing or unreadable,
// 3 per-file decode or relocation failures when --strict is set.
package main
