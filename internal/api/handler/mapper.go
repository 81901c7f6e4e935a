package handler

import (
	"github.com/nsqtech/record-tracker/internal/core/domain"
	"github.com/nsqtech/record-tracker/internal/core/ports"
)

// --- Request → Service input ---

func toCreateUserInput(req createUserRequest) ports.CreateUserInput {
	return ports.CreateUserInput{
		UserID:     req.UserID,
		Password:   req.Password,
		Role:       domain.Role(req.Role),
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
	}
}

func toUserPatch(req updateUserRequest) domain.UserPatch {
	patch := domain.UserPatch{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Password:   req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}
	return patch
}

func toCreateRecordInput(req createRecordRequest) ports.CreateRecordInput {
	return ports.CreateRecordInput{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Status:         domain.RecordStatus(req.Status),
		Priority:       domain.Priority(req.Priority),
		Classification: domain.Classification(req.Classification),
		AssignedTo:     req.AssignedTo,
		Metadata:       req.Metadata,
	}
}

func toRecordPatch(req updateRecordRequest) domain.RecordPatch {
	patch := domain.RecordPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		AssignedTo:  req.AssignedTo,
		Metadata:    req.Metadata,
	}
	if req.Status != nil {
		s := domain.RecordStatus(*req.Status)
		patch.Status = &s
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Classification != nil {
		c := domain.Classification(*req.Classification)
		patch.Classification = &c
	}
	return patch
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		UserID:     u.ID,
		Role:       string(u.Role),
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toRecordResponse(r *domain.Record) recordResponse {
	return recordResponse{
		RecordID:       r.ID,
		OwnerID:        r.OwnerID,
		Title:          r.Title,
		Description:    r.Description,
		Status:         string(r.Status),
		Priority:       string(r.Priority),
		Category:       r.Category,
		Classification: string(r.Classification),
		AssignedTo:     r.AssignedTo,
		Metadata:       r.Metadata,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
