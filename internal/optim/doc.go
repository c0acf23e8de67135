// Package optim minimises smooth functions of several variables.
//
// [GradientDescent] follows the negative gradient with a backtracking line
// search that enforces sufficient decrease. Gradients are approximated with
// a fourth-order central difference ([Gradient]). [GridSearch] scans a
// parameter grid and is useful to pick a starting point.
package optim
