/*
Package volumepath addresses a placed volume by the chain of placement names
from the root, e.g. `World_p/Gascontainer_p/Gasinsulator_p[0]`.

Segments are separated by '/'. A segment may carry a copy number in square
brackets; without one, any copy number matches.
*/
package volumepath
