package models

type Province struct {
	ID           string `bson:"_id,omitempty" json:"id"`
	Code         int    `bson:"code" json:"code"`
	Name         string `bson:"name" json:"name"`
	DivisionType string `bson:"division_type" json:"division_type"`
	Codename     string `bson:"codename" json:"codename"`
	PhoneCode    int    `bson:"phone_code" json:"phone_code"`
}

type District struct {
	ID           string `bson:"_id,omitempty" json:"id"`
	Code         int    `bson:"code" json:"code"`
	Name         string `bson:"name" json:"name"`
	DivisionType string `bson:"division_type" json:"division_type"`
	Codename     string `bson:"codename" json:"codename"`
	ProvinceCode int    `bson:"province_code" json:"province_code"`
}

type Ward struct {
	ID           string `bson:"_id,omitempty" json:"id"`
	Code         int    `bson:"code" json:"code"`
	Name         string `bson:"name" json:"name"`
	DivisionType string `bson:"division_type" json:"division_type"`
	Codename     string `bson:"codename" json:"codename"`
	DistrictCode int    `bson:"district_code" json:"district_code"`
}
