/*
Package session implements session management and persistence orchestration.

It serializes access to each editing session's Document, so that one keystroke
is a single load -> edit -> save transaction even when many hosts (HTTP, MCP,
replicas) drive the same session. Local access is guarded by reference counted
mutexes; an optional DistributedLocker extends the guarantee across processes.
*/
package session
