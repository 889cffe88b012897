/*
Package session implements identity-keyed session management.

It serializes interactions for the same identity token (in process, and across replicas
when a DistributedLocker is configured), and rotates tokens when an attempt completes so
a finished attempt cannot be replayed.
*/
package session
