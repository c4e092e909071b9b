package parse

import "fmt"

// ruleID identifies a grammar rule in memo entries, statistics and traces.
type ruleID int

const (
	ruleFile ruleID = iota
	ruleInteractive
	ruleEval
	ruleFstring

	ruleAnnotatedRHS
	ruleArgs
	ruleArguments
	ruleAssertStmt
	ruleAssignment
	ruleAssignmentExpression
	ruleAtom
	ruleAttr
	ruleAwaitPrimary
	ruleBitwiseAnd
	ruleBitwiseOr
	ruleBitwiseXor
	ruleBlock
	ruleCapturePattern
	ruleCaseBlock
	ruleClassDef
	ruleClassDefRaw
	ruleClassPattern
	ruleClosedPattern
	ruleComparePair
	ruleComparison
	ruleCompoundStmt
	ruleConjunction
	ruleDecorators
	ruleDelStmt
	ruleDelTAtom
	ruleDelTarget
	ruleDelTargets
	ruleDict
	ruleDictcomp
	ruleDisjunction
	ruleDottedAsName
	ruleDottedName
	ruleDoubleStarPattern
	ruleDoubleStarredKVPair
	ruleDoubleStarredKVPairs
	ruleElifStmt
	ruleExceptBlock
	ruleExpression
	ruleExpressionWithoutInvalid
	ruleExpressions
	ruleFactor
	ruleForIfClause
	ruleForIfClauses
	ruleForStmt
	ruleFunctionDef
	ruleFunctionDefRaw
	ruleGenexp
	ruleGlobalStmt
	ruleGroup
	ruleGroupPattern
	ruleIfStmt
	ruleImportFrom
	ruleImportFromAsName
	ruleImportFromTargets
	ruleImportName
	ruleInversion
	ruleItemsPattern
	ruleKVPair
	ruleKeyValuePattern
	ruleKeywordPattern
	ruleKwargOrDoubleStarred
	ruleKwargOrStarred
	ruleKwargs
	ruleLambdaParams
	ruleLambdef
	ruleList
	ruleListcomp
	ruleLiteralExpr
	ruleLiteralPattern
	ruleMappingPattern
	ruleMatchStmt
	ruleMaybeSequencePattern
	ruleMaybeStarPattern
	ruleNamedExpression
	ruleOpenSequencePattern
	ruleOrPattern
	ruleParam
	ruleParamItem
	ruleParams
	rulePattern
	rulePatternCaptureTarget
	rulePatterns
	rulePower
	rulePrimary
	ruleRaiseStmt
	ruleReturnStmt
	ruleSequencePattern
	ruleSet
	ruleSetcomp
	ruleShiftExpr
	ruleSignedNumber
	ruleSimpleStmt
	ruleSimpleStmts
	ruleSingleSubscriptAttributeTarget
	ruleSingleTarget
	ruleSlice
	ruleSlices
	ruleStarAtom
	ruleStarExpression
	ruleStarExpressions
	ruleStarNamedExpression
	ruleStarNamedExpressions
	ruleStarPattern
	ruleStarTarget
	ruleStarTargets
	ruleStarTargetsListSeq
	ruleStarTargetsTupleSeq
	ruleStarredExpression
	ruleStatement
	ruleStatementNewline
	ruleStatements
	ruleStrings
	ruleSubjectExpr
	ruleSum
	ruleTPrimary
	ruleTargetWithStarAtom
	ruleTerm
	ruleTryStmt
	ruleTuple
	ruleValuePattern
	ruleWhileStmt
	ruleWildcardPattern
	ruleWithItem
	ruleWithStmt
	ruleYieldExpr
	ruleYieldStmt

	// Diagnostic rules, only evaluated in the second pass.
	ruleInvalidAnnAssignTarget
	ruleInvalidArguments
	ruleInvalidAssignment
	ruleInvalidBlock
	ruleInvalidComprehension
	ruleInvalidDelStmt
	ruleInvalidDoubleStarredKVPairs
	ruleInvalidExpression
	ruleInvalidForTarget
	ruleInvalidGroup
	ruleInvalidImportFromTargets
	ruleInvalidKwarg
	ruleInvalidNamedExpression
	ruleInvalidWithItem

	ruleCount
)

var ruleNames = [ruleCount]string{
	ruleFile:                           "file",
	ruleInteractive:                    "interactive",
	ruleEval:                           "eval",
	ruleFstring:                        "fstring",
	ruleAnnotatedRHS:                   "annotated_rhs",
	ruleArgs:                           "args",
	ruleArguments:                      "arguments",
	ruleAssertStmt:                     "assert_stmt",
	ruleAssignment:                     "assignment",
	ruleAssignmentExpression:           "assignment_expression",
	ruleAtom:                           "atom",
	ruleAttr:                           "attr",
	ruleAwaitPrimary:                   "await_primary",
	ruleBitwiseAnd:                     "bitwise_and",
	ruleBitwiseOr:                      "bitwise_or",
	ruleBitwiseXor:                     "bitwise_xor",
	ruleBlock:                          "block",
	ruleCapturePattern:                 "capture_pattern",
	ruleCaseBlock:                      "case_block",
	ruleClassDef:                       "class_def",
	ruleClassDefRaw:                    "class_def_raw",
	ruleClassPattern:                   "class_pattern",
	ruleClosedPattern:                  "closed_pattern",
	ruleComparePair:                    "compare_pair",
	ruleComparison:                     "comparison",
	ruleCompoundStmt:                   "compound_stmt",
	ruleConjunction:                    "conjunction",
	ruleDecorators:                     "decorators",
	ruleDelStmt:                        "del_stmt",
	ruleDelTAtom:                       "del_t_atom",
	ruleDelTarget:                      "del_target",
	ruleDelTargets:                     "del_targets",
	ruleDict:                           "dict",
	ruleDictcomp:                       "dictcomp",
	ruleDisjunction:                    "disjunction",
	ruleDottedAsName:                   "dotted_as_name",
	ruleDottedName:                     "dotted_name",
	ruleDoubleStarPattern:              "double_star_pattern",
	ruleDoubleStarredKVPair:            "double_starred_kvpair",
	ruleDoubleStarredKVPairs:           "double_starred_kvpairs",
	ruleElifStmt:                       "elif_stmt",
	ruleExceptBlock:                    "except_block",
	ruleExpression:                     "expression",
	ruleExpressionWithoutInvalid:       "expression_without_invalid",
	ruleExpressions:                    "expressions",
	ruleFactor:                         "factor",
	ruleForIfClause:                    "for_if_clause",
	ruleForIfClauses:                   "for_if_clauses",
	ruleForStmt:                        "for_stmt",
	ruleFunctionDef:                    "function_def",
	ruleFunctionDefRaw:                 "function_def_raw",
	ruleGenexp:                         "genexp",
	ruleGlobalStmt:                     "global_stmt",
	ruleGroup:                          "group",
	ruleGroupPattern:                   "group_pattern",
	ruleIfStmt:                         "if_stmt",
	ruleImportFrom:                     "import_from",
	ruleImportFromAsName:               "import_from_as_name",
	ruleImportFromTargets:              "import_from_targets",
	ruleImportName:                     "import_name",
	ruleInversion:                      "inversion",
	ruleItemsPattern:                   "items_pattern",
	ruleKVPair:                         "kvpair",
	ruleKeyValuePattern:                "key_value_pattern",
	ruleKeywordPattern:                 "keyword_pattern",
	ruleKwargOrDoubleStarred:           "kwarg_or_double_starred",
	ruleKwargOrStarred:                 "kwarg_or_starred",
	ruleKwargs:                         "kwargs",
	ruleLambdaParams:                   "lambda_params",
	ruleLambdef:                        "lambdef",
	ruleList:                           "list",
	ruleListcomp:                       "listcomp",
	ruleLiteralExpr:                    "literal_expr",
	ruleLiteralPattern:                 "literal_pattern",
	ruleMappingPattern:                 "mapping_pattern",
	ruleMatchStmt:                      "match_stmt",
	ruleMaybeSequencePattern:           "maybe_sequence_pattern",
	ruleMaybeStarPattern:               "maybe_star_pattern",
	ruleNamedExpression:                "named_expression",
	ruleOpenSequencePattern:            "open_sequence_pattern",
	ruleOrPattern:                      "or_pattern",
	ruleParam:                          "param",
	ruleParamItem:                      "param_item",
	ruleParams:                         "params",
	rulePattern:                        "pattern",
	rulePatternCaptureTarget:           "pattern_capture_target",
	rulePatterns:                       "patterns",
	rulePower:                          "power",
	rulePrimary:                        "primary",
	ruleRaiseStmt:                      "raise_stmt",
	ruleReturnStmt:                     "return_stmt",
	ruleSequencePattern:                "sequence_pattern",
	ruleSet:                            "set",
	ruleSetcomp:                        "setcomp",
	ruleShiftExpr:                      "shift_expr",
	ruleSignedNumber:                   "signed_number",
	ruleSimpleStmt:                     "simple_stmt",
	ruleSimpleStmts:                    "simple_stmts",
	ruleSingleSubscriptAttributeTarget: "single_subscript_attribute_target",
	ruleSingleTarget:                   "single_target",
	ruleSlice:                          "slice",
	ruleSlices:                         "slices",
	ruleStarAtom:                       "star_atom",
	ruleStarExpression:                 "star_expression",
	ruleStarExpressions:                "star_expressions",
	ruleStarNamedExpression:            "star_named_expression",
	ruleStarNamedExpressions:           "star_named_expressions",
	ruleStarPattern:                    "star_pattern",
	ruleStarTarget:                     "star_target",
	ruleStarTargets:                    "star_targets",
	ruleStarTargetsListSeq:             "star_targets_list_seq",
	ruleStarTargetsTupleSeq:            "star_targets_tuple_seq",
	ruleStarredExpression:              "starred_expression",
	ruleStatement:                      "statement",
	ruleStatementNewline:               "statement_newline",
	ruleStatements:                     "statements",
	ruleStrings:                        "strings",
	ruleSubjectExpr:                    "subject_expr",
	ruleSum:                            "sum",
	ruleTPrimary:                       "t_primary",
	ruleTargetWithStarAtom:             "target_with_star_atom",
	ruleTerm:                           "term",
	ruleTryStmt:                        "try_stmt",
	ruleTuple:                          "tuple",
	ruleValuePattern:                   "value_pattern",
	ruleWhileStmt:                      "while_stmt",
	ruleWildcardPattern:                "wildcard_pattern",
	ruleWithItem:                       "with_item",
	ruleWithStmt:                       "with_stmt",
	ruleYieldExpr:                      "yield_expr",
	ruleYieldStmt:                      "yield_stmt",
	ruleInvalidAnnAssignTarget:         "invalid_ann_assign_target",
	ruleInvalidArguments:               "invalid_arguments",
	ruleInvalidAssignment:              "invalid_assignment",
	ruleInvalidBlock:                   "invalid_block",
	ruleInvalidComprehension:           "invalid_comprehension",
	ruleInvalidDelStmt:                 "invalid_del_stmt",
	ruleInvalidDoubleStarredKVPairs:    "invalid_double_starred_kvpairs",
	ruleInvalidExpression:              "invalid_expression",
	ruleInvalidForTarget:               "invalid_for_target",
	ruleInvalidGroup:                   "invalid_group",
	ruleInvalidImportFromTargets:       "invalid_import_from_targets",
	ruleInvalidKwarg:                   "invalid_kwarg",
	ruleInvalidNamedExpression:         "invalid_named_expression",
	ruleInvalidWithItem:                "invalid_with_item",
}

func (id ruleID) String() string {
	if 0 <= id && id < ruleCount {
		return ruleNames[id]
	}
	return fmt.Sprintf("rule(%d)", int(id))
}
