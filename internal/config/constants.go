package config

// BuiltinsPath is the reserved module cache key of the builtins module.
// It is never normalized against the filesystem.
const BuiltinsPath = "<builtins>"

// MainModuleName is the name given to the program entry module.
const MainModuleName = "<module>"

// IsTestMode indicates if the program is running in test mode.
// Tests set it to make generated variable names stable.
var IsTestMode = false

// Reserved module ids
const (
	BuiltinsModID = 0
	MainModID     = 1
)

// Nesting levels. Variables at GenericLevel are quantified.
const (
	TopLevel     = 1
	GenericLevel = 1<<31 - 1
)

// Built-in monomorphic type names
const (
	ObjTypeName        = "Obj"
	IntTypeName        = "Int"
	NatTypeName        = "Nat"
	BoolTypeName       = "Bool"
	FloatTypeName      = "Float"
	RatioTypeName      = "Ratio"
	StrTypeName        = "Str"
	NoneTypeName       = "NoneType"
	EllipsisTypeName   = "Ellipsis"
	InfTypeName        = "Inf"
	TypeTypeName       = "Type"
	ClassTypeName      = "ClassType"
	TraitTypeName      = "TraitType"
	SubroutineTypeName = "Subroutine"
	NeverTypeName      = "Never"
	FailureTypeName    = "Failure"
	ModuleTypeName     = "Module"
)

// Built-in polymorphic type names
const (
	ArrayTypeName  = "Array"
	SetTypeName    = "Set"
	DictTypeName   = "Dict"
	TupleTypeName  = "Tuple"
	RecordTypeName = "Record"
)

// SelfTypeName stands for the implementing type inside a methods block.
const SelfTypeName = "Self"

// Built-in constant functions understood by type-level application
const (
	SuccFuncName = "succ"
	PredFuncName = "pred"
)

// Names of ephemeral scopes
const (
	LambdaName          = "<lambda>"
	UnnamedRecordName   = "<unnamed record>"
	InstantCapacity     = 2
	DefaultCapacity     = 8
	SimilarNameDistance = 3
)

// SourceFileExt is the extension of source modules.
const SourceFileExt = ".er"
