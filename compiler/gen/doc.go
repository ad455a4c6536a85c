// Package gen implements the stamp code-generation engine.
//
// The pipeline for one type definition is:
//
//	schema.TypeDefinition (annotated input)
//	        |
//	   Build -> Model (parsed, partitioned, cross-checked annotations)
//	        |
//	   pattern modules -> Plan (declarative implementation blocks)
//	        |
//	   Synthesize -> Fragment (rendered source, one per pattern)
//	        |
//	   Assemble -> one gofmt-clean generated file
//
// Generation is all-or-nothing per definition. Batch runs isolate
// definitions from each other and collect failures into a Report.
package gen
