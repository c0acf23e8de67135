// Package integrators implements the single-step kernel shared by every
// driver: six explicit Runge-Kutta formulas described as Butcher tableaus.
//
//   - [Euler]: first order
//   - [Midpoint], [Trapezoid], [Ralston]: second order
//   - [ClassicRK4], [EqualRK4]: fourth order (EqualRK4 is the 3/8 rule)
//
// Stage samples k_i already include the step size: k_i = dt*f(t+c_i*dt, u+Σ a_ij*k_j),
// and the step returns u + Σ b_i*k_i. Adding a method is a new table entry.
package integrators
