// symbols/symbol_table.go - Scope context entry point
//
// The context engine is split into focused files:
// - symbol_table_core.go: kinds, VarInfo, type and method definitions, trait instances
// - symbol_table_advanced.go: the Context struct definition
// - symbol_table_init.go: construction factories and the builtins module
// - symbol_table_operations.go: grow/pop, declarations and registration
// - symbol_table_resolution.go: name, constant and type lookup
// - symbol_table_traits.go: trait implementation facts and method groups
// - symbol_table_compare.go: the subtype oracle and union/intersection/complement
// - symbol_table_maps.go: insertion-ordered tables backing decls, locals and consts
// - typaram_idx.go: locating quantified variables inside polymorphic types

package symbols
