// Package graphql maps the GraphQL operations onto the user and
// profile services. Authorization guards run at the resolver boundary,
// before any service call; the services stay transport-agnostic.
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/diewo77/go-users/internal/auth"
	"github.com/diewo77/go-users/internal/models"
	"github.com/diewo77/go-users/internal/services"
)

// New builds the executable schema over the given services.
func New(users *services.UserService, profiles *services.ProfileService) (graphql.Schema, error) {
	profileType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Profile",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"nome":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"descricao": &graphql.Field{Type: graphql.String},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"nome":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"ativo":        &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"data_criacao": &graphql.Field{Type: graphql.DateTime},
			"data_update":  &graphql.Field{Type: graphql.DateTime},
			"perfis": &graphql.Field{
				Type: graphql.NewList(profileType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var id uint
					switch u := p.Source.(type) {
					case *models.User:
						id = u.ID
					case models.User:
						id = u.ID
					default:
						return nil, nil
					}
					return users.Profiles(p.Context, id)
				},
			},
		},
	})

	authenticatedUserType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthenticatedUser",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"nome":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"ativo":  &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"perfis": &graphql.Field{Type: graphql.NewList(profileType)},
			"token":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"iat":    &graphql.Field{Type: graphql.Int},
			"exp":    &graphql.Field{Type: graphql.Int},
		},
	})

	metricsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Metrics",
		Fields: graphql.Fields{
			"totalUsers":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"activeUsers":   &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"inactiveUsers": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"totalProfiles": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	profileFilterInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProfileFilter",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":        &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"nome":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"descricao": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	profileInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProfileInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"nome":      &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"descricao": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	profileUpdateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ProfileUpdateInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"nome":      &graphql.InputObjectFieldConfig{Type: graphql.String},
			"descricao": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	userFilterInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserFilter",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":    &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"nome":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"email": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	userInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"nome":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"senha":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"perfis": &graphql.InputObjectFieldConfig{Type: graphql.NewList(profileFilterInput)},
		},
	})

	userUpdateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserUpdateInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"nome":   &graphql.InputObjectFieldConfig{Type: graphql.String},
			"email":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"senha":  &graphql.InputObjectFieldConfig{Type: graphql.String},
			"ativo":  &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
			"perfis": &graphql.InputObjectFieldConfig{Type: graphql.NewList(profileFilterInput)},
		},
	})

	signUpInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "SignUpInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"nome":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"email": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"senha": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	loginInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "LoginInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"email": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"senha": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"getAllProfiles": &graphql.Field{
				Type: graphql.NewList(profileType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := auth.FromContext(p.Context).RequireAdmin(); err != nil {
						return nil, err
					}
					return profiles.GetAll(p.Context)
				},
			},
			"getProfileByParams": &graphql.Field{
				Type: profileType,
				Args: graphql.FieldConfigArgument{
					"filter": &graphql.ArgumentConfig{Type: graphql.NewNonNull(profileFilterInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := auth.FromContext(p.Context).RequireAdmin(); err != nil {
						return nil, err
					}
					return profiles.GetByParams(p.Context, profileFilter(argMap(p.Args, "filter")))
				},
			},
			"getAllUsers": &graphql.Field{
				Type: graphql.NewList(userType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := auth.FromContext(p.Context).RequireAdmin(); err != nil {
						return nil, err
					}
					return users.GetAll(p.Context)
				},
			},
			"getUserByParams": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"filter": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userFilterInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := userFilter(argMap(p.Args, "filter"))
					if err := auth.FromContext(p.Context).RequireUserAccess(filter.ID); err != nil {
						return nil, err
					}
					return users.GetByParams(p.Context, filter)
				},
			},
			"login": &graphql.Field{
				Type: authenticatedUserType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(loginInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := argMap(p.Args, "input")
					return users.Login(p.Context, services.LoginInput{
						Email:    stringArg(in, "email"),
						Password: stringArg(in, "senha"),
					})
				},
			},
			"getMetrics": &graphql.Field{
				Type: metricsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := auth.FromContext(p.Context).RequireAdmin(); err != nil {
						return nil, err
					}
					return users.Metrics(p.Context)
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createProfile": &graphql.Field{
				Type: profileType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(profileInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := auth.FromContext(p.Context).RequireAdmin(); err != nil {
						return nil, err
					}
					in := argMap(p.Args, "input")
					return profiles.Create(p.Context, services.ProfileInput{
						Name:        stringArg(in, "nome"),
						Description: stringArg(in, "descricao"),
					})
				},
			},
			"updateProfile": &graphql.Field{
				Type: profileType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(profileUpdateInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := auth.FromContext(p.Context).RequireAdmin(); err != nil {
						return nil, err
					}
					in := argMap(p.Args, "input")
					return profiles.Update(p.Context, uintArg(p.Args, "id"), services.ProfileUpdateInput{
						Name:        optString(in, "nome"),
						Description: optString(in, "descricao"),
					})
				},
			},
			"deleteProfile": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := auth.FromContext(p.Context).RequireAdmin(); err != nil {
						return nil, err
					}
					return profiles.Delete(p.Context, uintArg(p.Args, "id"))
				},
			},
			"createUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := auth.FromContext(p.Context).RequireAdmin(); err != nil {
						return nil, err
					}
					in := argMap(p.Args, "input")
					return users.Create(p.Context, services.CreateUserInput{
						Name:     stringArg(in, "nome"),
						Email:    stringArg(in, "email"),
						Password: stringArg(in, "senha"),
						Profiles: profileRefs(in, "perfis"),
					})
				},
			},
			"updateUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userUpdateInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					ac := auth.FromContext(p.Context)
					id := uintArg(p.Args, "id")
					if err := ac.RequireUserAccess(id); err != nil {
						return nil, err
					}
					var callerProfiles []auth.ProfileClaim
					if ident := ac.Identity(); ident != nil {
						callerProfiles = ident.Profiles
					}
					in := argMap(p.Args, "input")
					return users.Update(p.Context, id, services.UpdateUserInput{
						Name:     optString(in, "nome"),
						Email:    optString(in, "email"),
						Password: optString(in, "senha"),
						Active:   optBool(in, "ativo"),
						Profiles: profileRefs(in, "perfis"),
					}, callerProfiles)
				},
			},
			"deleteUser": &graphql.Field{
				Type: graphql.String,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := auth.FromContext(p.Context).RequireAdmin(); err != nil {
						return nil, err
					}
					return users.Delete(p.Context, uintArg(p.Args, "id"))
				},
			},
			"signUp": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(signUpInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					in := argMap(p.Args, "input")
					return users.SignUp(p.Context, services.SignUpInput{
						Name:     stringArg(in, "nome"),
						Email:    stringArg(in, "email"),
						Password: stringArg(in, "senha"),
					})
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}
