package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the actor is not allowed to perform the operation.
var ErrForbidden = errors.New("forbidden")

// --- Approval workflow errors ---

// ErrUnknownStage indicates that the requested stage does not exist in the stage configuration.
var ErrUnknownStage = errors.New("unknown workflow stage")

// ErrUnauthorizedRole indicates the actor's role is not part of the approval's required roles.
var ErrUnauthorizedRole = errors.New("role is not authorized for this approval")

// ErrAlreadyApprovedByRole indicates the role already holds its quorum slot on this approval.
// One vote per role, not per person.
var ErrAlreadyApprovedByRole = errors.New("role has already approved this request")

// ErrApprovalNotPending indicates the approval request has reached a terminal state.
var ErrApprovalNotPending = errors.New("approval request is no longer pending")

// --- Case conversion (payment gate) errors ---

// ErrPaymentNotVerified indicates the case's payment has not been verified by accounts.
var ErrPaymentNotVerified = errors.New("payment has not been verified")

// ErrInvalidStatus indicates the case is not in the status required for the operation.
// Callers wrap this with the actual status so the blocker can be explained.
var ErrInvalidStatus = errors.New("case status does not allow this operation")

// --- Ledger errors ---

// ErrInvalidAmount indicates an amount outside the allowed range for the operation.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrNotPending indicates a status transition was attempted on a transaction
// that is no longer pending. Both approved and rejected are terminal.
var ErrNotPending = errors.New("transaction is not pending")
