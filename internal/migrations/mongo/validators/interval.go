package validators

import "go.mongodb.org/mongo-driver/bson"

var TimeIntervalValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"week_day",
			"time_start_in_minutes",
			"time_end_in_minutes",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"week_day": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  6,
			},

			"time_start_in_minutes": bson.M{
				"bsonType":   "int",
				"minimum":    0,
				"maximum":    1440,
				"multipleOf": 60,
			},

			"time_end_in_minutes": bson.M{
				"bsonType":   "int",
				"minimum":    0,
				"maximum":    1440,
				"multipleOf": 60,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
