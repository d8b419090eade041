// Package fetch downloads metadata and content from sets of equivalent mirrors.
//
// A SourceSet lists the mirrors of one resource. Race queries all of them at
// once: any success wins, and only the last mirror's failure may end the race.
// Client layers HTTP, JSON decoding and integrity checks on top of Race, and
// reports failures as errorx errors of the fetch namespace.
package fetch
