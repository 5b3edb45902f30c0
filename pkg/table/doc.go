// Package table reads and validates the two tabular inputs of a network
// analysis: an adjacency table and a node attribute table.
//
// # Adjacency Table
//
// The adjacency table is delimited text with a header row of column node
// identifiers and one row per node whose first cell is the row identifier:
//
//	,LRA,SPLA,JEM
//	LRA,0,1,0
//	SPLA,1,0,2
//	JEM,0,2,0
//
// The first header cell is ignored. Entries are non-negative tie weights and
// 0 means no tie. [ReadAdjacency] fails with a shape error when the table is
// not square, with an alignment error when row and column identifiers differ
// or repeat, and with a schema error when a cell is not a number. Rows given
// in a different order than the columns are realigned to column order.
//
// # Attribute Table
//
// The attribute table has one row per node and the columns declared by a
// [Schema]. Each declared column has a [Kind] that controls parsing:
//
//   - [KindNumeric]: a finite float (e.g. group size)
//   - [KindOrdinal]: an integer score (e.g. ideology)
//   - [KindCategorical]: a string level compared by exact equality (e.g. role)
//   - [KindLabel]: a free-form display string
//
// [Align] checks that the attribute table covers exactly the adjacency node
// set and returns the attributes in adjacency order, so that row i of each
// refers to the same node.
//
// # Loading
//
// [Load] combines fetching, parsing, validation and alignment. It is a
// one-shot batch operation: any failure aborts and nothing is retried.
package table
