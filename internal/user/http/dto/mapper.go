package dto

import (
	"github.com/allisson/authgate/internal/user/domain"
)

// MapUserToResponse converts a domain user to its API representation.
func MapUserToResponse(user *domain.User) UserResponse {
	roles := user.RoleNames()
	if roles == nil {
		roles = []string{}
	}

	return UserResponse{
		ID:              user.ID.String(),
		Username:        user.Username,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		PhoneNumber:     user.PhoneNumber,
		IsActive:        user.IsActive,
		IsEmailVerified: user.IsEmailVerified,
		IsPhoneVerified: user.IsPhoneVerified,
		IsAdmin:         user.IsAdmin,
		Roles:           roles,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
		LastLoginAt:     user.LastLoginAt,
	}
}

// MapUsersToResponse converts a slice of domain users.
func MapUsersToResponse(users []*domain.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, MapUserToResponse(user))
	}
	return responses
}

// MapRoleToResponse converts a domain role to its API representation.
func MapRoleToResponse(role *domain.Role) RoleResponse {
	return RoleResponse{
		ID:          role.ID.String(),
		Name:        role.Name,
		Description: role.Description,
		IsActive:    role.IsActive,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

// MapRolesToResponse converts a slice of domain roles.
func MapRolesToResponse(roles []*domain.Role) []RoleResponse {
	responses := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		responses = append(responses, MapRoleToResponse(role))
	}
	return responses
}

// MapStatisticsToResponse converts domain statistics.
func MapStatisticsToResponse(stats *domain.Statistics) StatisticsResponse {
	return StatisticsResponse{
		TotalActiveUsers: stats.TotalActiveUsers,
		TotalAdmins:      stats.TotalAdmins,
		TotalRoles:       stats.TotalRoles,
	}
}
