package validators

import "go.mongodb.org/mongo-driver/bson"

var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"username",
			"name",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"username": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 30,
				"pattern":   "^[a-z0-9]([a-z0-9-]*[a-z0-9])?$",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 100,
			},

			"bio": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"avatar_url": bson.M{
				"bsonType":  "string",
				"maxLength": 2048,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
