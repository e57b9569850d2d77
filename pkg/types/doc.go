// Package types defines the user and favorite entities, the Store contract
// that the persistence layer implements, the city/time readings shown on the
// clock board, and the standard errors shared by every layer of capitals.
package types
