/*
Package nodeid owns the identifiers of an editor session: the injectable
Sequence that mints node ids (and stable menu item keys), and the structured
form of connection-point identifiers such as `item-3` or `option-0`.

Node ids follow the `dndnode_<n>` scheme by default. A Sequence is scoped to
one editor session and is never shared, so tests can reset it and ids are
never reused within a session.
*/
package nodeid
