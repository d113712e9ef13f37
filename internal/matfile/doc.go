// Package matfile decodes Level 5 MAT-files into typed variable trees.
//
// It implements the subset of the format that battery cycling records
// use: numeric, char, cell and struct arrays, little- and big-endian
// byte order, and zlib-compressed elements. Decoding happens once at
// the file boundary; downstream packages work with *Array values and
// never touch the wire format.
//
// Basic usage:
//
//	f, err := matfile.Open("B0005.mat")
//	if err != nil {
//	    return err
//	}
//	cycles := f.Vars[0].Elements[0].Field("cycle")
package matfile
