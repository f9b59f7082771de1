package document

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// lookupOne joins a single referenced document into field as.
// Unmatched references keep the source document with the field absent.
func lookupOne(from, localField, as string) []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: from},
			{Key: "localField", Value: localField},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: as},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + as},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// placeViewPipeline attaches district_name to each place. A nil match
// selects every place.
func placeViewPipeline(match bson.D) mongo.Pipeline {
	p := mongo.Pipeline{}
	if match != nil {
		p = append(p, bson.D{{Key: "$match", Value: match}})
	}
	p = append(p, lookupOne(DistrictCollection, "district_id", "district")...)
	p = append(p,
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "place_name", Value: 1},
			{Key: "district_id", Value: 1},
			{Key: "district_name", Value: "$district.district_name"},
		}}},
		bson.D{{Key: "$sort", Value: sortByID}},
	)
	return p
}

// userViewPipeline attaches place and district names to each user in two
// lookup stages. The password never leaves the projection.
func userViewPipeline(match bson.D) mongo.Pipeline {
	p := mongo.Pipeline{}
	if match != nil {
		p = append(p, bson.D{{Key: "$match", Value: match}})
	}
	p = append(p, lookupOne(PlaceCollection, "place_id", "place")...)
	p = append(p, lookupOne(DistrictCollection, "place.district_id", "district")...)
	p = append(p,
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "full_name", Value: 1},
			{Key: "email", Value: 1},
			{Key: "photo", Value: 1},
			{Key: "place_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "place_name", Value: "$place.place_name"},
			{Key: "district_id", Value: "$place.district_id"},
			{Key: "district_name", Value: "$district.district_name"},
		}}},
		bson.D{{Key: "$sort", Value: sortByID}},
	)
	return p
}
